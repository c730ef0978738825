package Controllers

import (
	"errors"
	"log"
	"net/url"

	"HomeList/Models"
	"HomeList/Notifications"
	"HomeList/Services"
	"HomeList/middleware"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	Accounts      *Services.AccountService
	Mail          Notifications.EmailSender
	AppURL        string
	SecureCookies bool
}

func NewAuthController(accounts *Services.AccountService, mail Notifications.EmailSender, appURL string) *AuthController {
	return &AuthController{Accounts: accounts, Mail: mail, AppURL: appURL}
}

type registerRequest struct {
	Username string `json:"username" form:"username" validate:"max=255"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,password"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type settingsRequest struct {
	Username            *string `json:"username" validate:"omitempty,max=255"`
	Email               *string `json:"email" validate:"omitempty,email"`
	NotificationsOptOut *bool   `json:"notifications_opt_out"`
	CurrentPassword     string  `json:"current_password"`
	NewPassword         string  `json:"new_password" validate:"omitempty,password"`
}

type forgotRequest struct {
	Email string `json:"email" form:"email" validate:"required"`
}

type resetRequest struct {
	Token    string `json:"token" form:"token" validate:"required"`
	Password string `json:"password" form:"password" validate:"required,password"`
}

func (c *AuthController) startSession(ctx *fiber.Ctx, userID uint) (string, error) {
	token, err := middleware.IssueToken(userID, middleware.SessionAudience, middleware.SessionTTL)
	if err != nil {
		return "", err
	}
	ctx.Cookie(middleware.SessionCookie(token, c.SecureCookies))
	return token, nil
}

func (c *AuthController) Register(ctx *fiber.Ctx) error {
	var req registerRequest
	if err := bind(ctx, &req); err != nil {
		return respondError(ctx, err)
	}
	user, err := c.Accounts.Register(ctx.UserContext(), req.Username, req.Email, req.Password)
	if err != nil {
		return respondError(ctx, err)
	}
	token, err := c.startSession(ctx, user.ID)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  presentUser(*user),
	})
}

func (c *AuthController) Login(ctx *fiber.Ctx) error {
	var req loginRequest
	if err := bind(ctx, &req); err != nil {
		return respondError(ctx, err)
	}
	user, err := c.Accounts.Authenticate(ctx.UserContext(), req.Email, req.Password)
	if errors.Is(err, Services.ErrInvalidCredentials) {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "invalid_credentials",
			"message": err.Error(),
		})
	}
	if err != nil {
		return respondError(ctx, err)
	}
	token, err := c.startSession(ctx, user.ID)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"token": token,
		"user":  presentUser(*user),
	})
}

func (c *AuthController) Logout(ctx *fiber.Ctx) error {
	ctx.Cookie(middleware.SessionCookie("", c.SecureCookies))
	return ctx.JSON(fiber.Map{"message": "Logged out"})
}

func (c *AuthController) Me(ctx *fiber.Ctx) error {
	return ctx.JSON(presentUser(currentUser(ctx)))
}

func (c *AuthController) UpdateSettings(ctx *fiber.Ctx) error {
	var req settingsRequest
	if err := bind(ctx, &req); err != nil {
		return respondError(ctx, err)
	}
	user, err := c.Accounts.UpdateSettings(ctx.UserContext(), currentUser(ctx).ID, Services.SettingsChanges{
		Username:            req.Username,
		Email:               req.Email,
		NotificationsOptOut: req.NotificationsOptOut,
		CurrentPassword:     req.CurrentPassword,
		NewPassword:         req.NewPassword,
	})
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(presentUser(*user))
}

// ForgotPassword always answers the same way so it cannot be used to check
// for registered addresses.
func (c *AuthController) ForgotPassword(ctx *fiber.Ctx) error {
	var req forgotRequest
	if err := bind(ctx, &req); err != nil {
		return respondError(ctx, err)
	}
	if err := c.sendReset(ctx, req.Email); err != nil {
		log.Printf("Failed to send password reset: %v", err)
	}
	return ctx.JSON(fiber.Map{"message": "If that address has an account, a reset link is on its way."})
}

func (c *AuthController) sendReset(ctx *fiber.Ctx, email string) error {
	user, err := c.Accounts.ByEmail(ctx.UserContext(), email)
	if Services.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	token, err := middleware.IssueResetToken(*user)
	if err != nil {
		return err
	}
	if c.Mail == nil {
		return errors.New("no mailer configured")
	}
	link := c.AppURL + "/reset-password?token=" + url.QueryEscape(token)
	return c.Mail.SendTemplate(user.Email, "Reset your HomeList password", "reset", fiber.Map{
		"Name": user.DisplayName(),
		"Link": link,
	})
}

func (c *AuthController) ResetPassword(ctx *fiber.Ctx) error {
	var req resetRequest
	if err := bind(ctx, &req); err != nil {
		return respondError(ctx, err)
	}
	userID, err := middleware.ParseResetToken(ctx.UserContext(), c.Accounts.DB, req.Token)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_token",
			"message": "The reset link is invalid or has expired",
		})
	}
	if err := c.Accounts.SetPassword(ctx.UserContext(), userID, req.Password); err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(fiber.Map{"message": "Password updated"})
}

// Form handlers for the server-rendered pages.

func (c *AuthController) LoginPage(ctx *fiber.Ctx) error {
	return ctx.Render("pages/login", fiber.Map{"Title": "Log in"}, "layouts/main")
}

func (c *AuthController) LoginForm(ctx *fiber.Ctx) error {
	var req loginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).Render("pages/login", fiber.Map{"Title": "Log in", "Error": "Invalid form"}, "layouts/main")
	}
	user, err := c.Accounts.Authenticate(ctx.UserContext(), req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, Services.ErrInvalidCredentials) {
			log.Printf("Failed to authenticate: %v", err)
		}
		return ctx.Status(fiber.StatusUnauthorized).Render("pages/login", fiber.Map{
			"Title": "Log in",
			"Error": "Invalid email or password",
			"Email": req.Email,
		}, "layouts/main")
	}
	if _, err := c.startSession(ctx, user.ID); err != nil {
		return respondError(ctx, err)
	}
	return ctx.Redirect("/dashboard")
}

func (c *AuthController) RegisterPage(ctx *fiber.Ctx) error {
	return ctx.Render("pages/register", fiber.Map{"Title": "Sign up"}, "layouts/main")
}

func (c *AuthController) RegisterForm(ctx *fiber.Ctx) error {
	var req registerRequest
	err := bind(ctx, &req)
	var user *Models.User
	if err == nil {
		user, err = c.Accounts.Register(ctx.UserContext(), req.Username, req.Email, req.Password)
	}
	if err != nil {
		msg := "Something went wrong"
		var v *Services.ValidationError
		var conflict *Services.ConflictError
		switch {
		case errors.As(err, &v):
			msg = v.Message
		case errors.As(err, &conflict):
			msg = conflict.Message
		default:
			log.Printf("Failed to register: %v", err)
		}
		return ctx.Status(fiber.StatusBadRequest).Render("pages/register", fiber.Map{
			"Title":    "Sign up",
			"Error":    msg,
			"Username": req.Username,
			"Email":    req.Email,
		}, "layouts/main")
	}
	if _, err := c.startSession(ctx, user.ID); err != nil {
		return respondError(ctx, err)
	}
	return ctx.Redirect("/dashboard")
}

func (c *AuthController) LogoutPage(ctx *fiber.Ctx) error {
	ctx.Cookie(middleware.SessionCookie("", c.SecureCookies))
	return ctx.Redirect("/login")
}

func (c *AuthController) ForgotPage(ctx *fiber.Ctx) error {
	return ctx.Render("pages/forgot", fiber.Map{"Title": "Forgot password"}, "layouts/main")
}

func (c *AuthController) ForgotForm(ctx *fiber.Ctx) error {
	var req forgotRequest
	if err := bind(ctx, &req); err == nil {
		if err := c.sendReset(ctx, req.Email); err != nil {
			log.Printf("Failed to send password reset: %v", err)
		}
	}
	return ctx.Render("pages/forgot", fiber.Map{"Title": "Forgot password", "Sent": true}, "layouts/main")
}

func (c *AuthController) ResetPage(ctx *fiber.Ctx) error {
	return ctx.Render("pages/reset", fiber.Map{"Title": "Reset password", "Token": ctx.Query("token")}, "layouts/main")
}

func (c *AuthController) ResetForm(ctx *fiber.Ctx) error {
	var req resetRequest
	err := bind(ctx, &req)
	var userID uint
	if err == nil {
		userID, err = middleware.ParseResetToken(ctx.UserContext(), c.Accounts.DB, req.Token)
		if err != nil {
			err = &Services.ValidationError{Field: "token", Message: "The reset link is invalid or has expired"}
		}
	}
	if err == nil {
		err = c.Accounts.SetPassword(ctx.UserContext(), userID, req.Password)
	}
	if err != nil {
		msg := "Something went wrong"
		var v *Services.ValidationError
		if errors.As(err, &v) {
			msg = v.Message
		} else {
			log.Printf("Failed to reset password: %v", err)
		}
		return ctx.Status(fiber.StatusBadRequest).Render("pages/reset", fiber.Map{
			"Title": "Reset password",
			"Token": req.Token,
			"Error": msg,
		}, "layouts/main")
	}
	return ctx.Redirect("/login")
}
