package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/url"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/scrapeflow/configs"
	"github.com/maheshrc27/scrapeflow/internal/models"
	"github.com/maheshrc27/scrapeflow/internal/service"
	"github.com/maheshrc27/scrapeflow/pkg/utils"
)

type PlatformHandler struct {
	ps  service.PlatformService
	cfg config.Config
}

func NewPlatformHandler(ps service.PlatformService, cfg config.Config) *PlatformHandler {
	return &PlatformHandler{
		ps:  ps,
		cfg: cfg,
	}
}

// AddLinkedInAccount redirects to LinkedIn. state must be the caller's session
// token so the callback can attribute the account.
func (h *PlatformHandler) AddLinkedInAccount(c *fiber.Ctx) error {
	state := c.Query("state")
	if state == "" {
		state = c.Cookies(h.cfg.CookieName)
	}
	if _, err := utils.UserIDFromToken(h.cfg.SecretKey, state); err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unable to validate user")
	}

	authURL := h.ps.GetAuthURL(models.PlatformLinkedIn, state)
	return c.Redirect(authURL, fiber.StatusTemporaryRedirect)
}

func (h *PlatformHandler) LinkedInCallback(c *fiber.Ctx) error {
	if reason := c.Query("error"); reason != "" {
		log.Printf("LinkedIn authorization declined: %s", reason)
		return c.Redirect(fmt.Sprintf("%s/dashboard/accounts?error=%s", h.cfg.FrontendURL, url.QueryEscape(reason)), fiber.StatusTemporaryRedirect)
	}

	userID, err := utils.UserIDFromToken(h.cfg.SecretKey, c.Query("state"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Unable to validate user")
	}

	code := c.Query("code")
	if code == "" {
		return errorJSON(c, fiber.StatusBadRequest, "Missing authorization code")
	}

	if _, err := h.ps.Connect(c.Context(), userID, code); err != nil {
		log.Println(err.Error())
		return errorJSON(c, fiber.StatusBadRequest, "Something went wrong")
	}

	redirectURL := fmt.Sprintf("%s/dashboard/accounts", h.cfg.FrontendURL)
	return c.Redirect(redirectURL, fiber.StatusTemporaryRedirect)
}

func (h *PlatformHandler) ListSocialAccounts(c *fiber.Ctx) error {
	userID := GetUserID(c)

	accountList, err := h.ps.List(c.Context(), userID)
	if err != nil {
		log.Println(err.Error())
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to fetch social accounts")
	}

	return c.Status(fiber.StatusOK).JSON(accountList)
}

func (h *PlatformHandler) RemoveLinkedInAccount(c *fiber.Ctx) error {
	userID := GetUserID(c)

	err := h.ps.Disconnect(c.Context(), userID, models.PlatformLinkedIn)
	if errors.Is(err, service.ErrAccountNotFound) {
		return errorJSON(c, fiber.StatusNotFound, err.Error())
	}
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Unable to delete social account")
	}

	return c.SendStatus(fiber.StatusOK)
}
