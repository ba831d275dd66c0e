package handlers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/scrapeflow/configs"
	"github.com/maheshrc27/scrapeflow/internal/service"
	"github.com/maheshrc27/scrapeflow/pkg/utils"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	oauthStateCookie = "scrapeflow_oauth_state"
	sessionDuration  = 24 * time.Hour
)

type AuthHandler struct {
	s   service.AuthService
	cfg config.Config
}

func NewAuthHandler(cfg config.Config, service service.AuthService) *AuthHandler {
	return &AuthHandler{s: service, cfg: cfg}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	state, err := gonanoid.New()
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "something went wrong")
	}

	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Minute),
	})

	return c.Redirect(h.s.LoginURL(state), fiber.StatusTemporaryRedirect)
}

func (h *AuthHandler) LoginCallbackHandler(c *fiber.Ctx) error {
	expected := c.Cookies(oauthStateCookie)
	if expected == "" || c.Query("state") != expected {
		return errorJSON(c, fiber.StatusBadRequest, "invalid login state")
	}
	c.ClearCookie(oauthStateCookie)

	userID, err := h.s.LoginCallback(c.Context(), c.Query("code"))
	if err != nil {
		log.Println(err.Error())
		return errorJSON(c, fiber.StatusBadRequest, "something went wrong")
	}

	token, err := utils.GenerateToken(h.cfg.SecretKey, userID, sessionDuration)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "something went wrong")
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.CookieName,
		Value:    token,
		HTTPOnly: true,
		Secure:   false,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
		Expires:  time.Now().Add(sessionDuration),
	})

	return c.Redirect(h.cfg.FrontendURL, fiber.StatusTemporaryRedirect)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:   h.cfg.CookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	return c.SendStatus(fiber.StatusOK)
}
