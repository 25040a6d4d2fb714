package handlers

import (
	"keytrack/internal/core/services"
	"keytrack/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SettingsHandler handles profile, branding and reset endpoints
type SettingsHandler struct {
	profileService  *services.ProfileService
	settingsService *services.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(profileService *services.ProfileService, settingsService *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		profileService:  profileService,
		settingsService: settingsService,
	}
}

// LogoRequest represents logo update body; a null logo removes it
type LogoRequest struct {
	Logo *string `json:"logo"`
}

// GetProfile handles reading the profile
// @Summary Get profile
// @Description Returns the profile, creating the default one on first use
// @Tags Settings
// @Produce json
// @Success 200 {object} response.Response{data=domain.UserProfile}
// @Router /profile [get]
func (h *SettingsHandler) GetProfile(c *fiber.Ctx) error {
	profile, err := h.profileService.Get(c.Context())
	if err != nil {
		return fail(c, err, "Failed to load profile")
	}

	return response.OK(c, profile)
}

// UpdateProfile handles editing the profile
// @Summary Update profile
// @Tags Settings
// @Accept json
// @Produce json
// @Param body body services.UpdateProfileInput true "Fields to change"
// @Success 200 {object} response.Response{data=domain.UserProfile}
// @Failure 404 {object} response.Response
// @Router /profile [put]
func (h *SettingsHandler) UpdateProfile(c *fiber.Ctx) error {
	var input services.UpdateProfileInput
	if err := parseBody(c, &input); err != nil {
		return response.BadRequest(c, err.Error())
	}

	profile, err := h.profileService.Update(c.Context(), &input)
	if err != nil {
		return fail(c, err, "Failed to update profile")
	}

	return response.OK(c, profile)
}

// UpdateLogo handles replacing the application logo
// @Summary Update logo
// @Tags Settings
// @Accept json
// @Produce json
// @Param body body LogoRequest true "Base64 logo"
// @Success 200 {object} response.Response{data=domain.UserProfile}
// @Failure 404 {object} response.Response
// @Router /settings/logo [put]
func (h *SettingsHandler) UpdateLogo(c *fiber.Ctx) error {
	var req LogoRequest
	if err := parseBody(c, &req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	profile, err := h.profileService.SetLogo(c.Context(), req.Logo)
	if err != nil {
		return fail(c, err, "Failed to update logo")
	}

	return response.OK(c, profile)
}

// Reset handles wiping all operational data
// @Summary Reset system
// @Description Deletes keys, assignments, requests, notifications, rooms and non-seed users
// @Tags Settings
// @Produce json
// @Success 200 {object} response.Response{data=services.ResetResult}
// @Failure 500 {object} response.Response
// @Router /settings/reset [post]
func (h *SettingsHandler) Reset(c *fiber.Ctx) error {
	result, err := h.settingsService.Reset(c.Context())
	if err != nil {
		return fail(c, err, "Failed to reset data")
	}

	return response.Success(c, result.Message, result)
}
