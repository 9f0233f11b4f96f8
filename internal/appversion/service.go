// Package appversion tracks published mobile app releases and tells clients whether they must upgrade.
package appversion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"golang.org/x/mod/semver"

	"github.com/noah-isme/backend-food/internal/common"
	dbgen "github.com/noah-isme/backend-food/internal/db/gen"
)

// PlatformAll marks a release that applies to every platform.
const PlatformAll = "all"

// ErrInvalidVersion means a version string is not a dotted release number.
var ErrInvalidVersion = errors.New("appversion: invalid version")

// Querier is the persistence used by Service.
type Querier interface {
	GetLatestAppVersion(ctx context.Context, platform string) (dbgen.AppVersion, error)
	CreateAppVersion(ctx context.Context, arg dbgen.CreateAppVersionParams) (dbgen.AppVersion, error)
}

// Announcer broadcasts a new release to devices.
type Announcer interface {
	AppUpdate(ctx context.Context, version, platform, notes string, force bool) error
}

// Service answers version checks and records releases.
type Service struct {
	Queries   Querier
	Announcer Announcer
}

// Release is a published app version.
type Release struct {
	ID                  string    `json:"id"`
	Platform            string    `json:"platform"`
	Version             string    `json:"version"`
	MinSupportedVersion string    `json:"min_supported_version"`
	ForceUpdate         bool      `json:"force_update"`
	ReleaseNotes        *string   `json:"release_notes"`
	CreatedAt           time.Time `json:"created_at"`
}

// CheckResult is the answer to GET /app/version.
type CheckResult struct {
	Platform            string  `json:"platform"`
	CurrentVersion      string  `json:"current_version"`
	LatestVersion       string  `json:"latest_version,omitempty"`
	MinSupportedVersion string  `json:"min_supported_version,omitempty"`
	UpdateAvailable     bool    `json:"update_available"`
	UpdateRequired      bool    `json:"update_required"`
	ForceUpdate         bool    `json:"force_update"`
	ReleaseNotes        *string `json:"release_notes,omitempty"`
}

// Check compares the client's version with the newest release for its platform.
func (s *Service) Check(ctx context.Context, platform, current string) (CheckResult, error) {
	platform = strings.ToLower(strings.TrimSpace(platform))
	if platform == "" {
		platform = "android"
	}
	current = strings.TrimSpace(current)
	if current == "" {
		current = "1.0.0"
	}
	res := CheckResult{Platform: platform, CurrentVersion: current}
	if !valid(current) {
		return res, ErrInvalidVersion
	}
	latest, found, err := s.latest(ctx, platform)
	if err != nil || !found {
		return res, err
	}
	res.LatestVersion = latest.Version
	res.MinSupportedVersion = latest.MinSupportedVersion
	res.ReleaseNotes = common.OptionalText(latest.ReleaseNotes)
	res.UpdateAvailable = Compare(current, latest.Version) < 0
	res.UpdateRequired = latest.MinSupportedVersion != "" && Compare(current, latest.MinSupportedVersion) < 0
	res.ForceUpdate = res.UpdateRequired || (res.UpdateAvailable && latest.ForceUpdate)
	return res, nil
}

// latest picks the newer of the platform release and the all-platform release.
func (s *Service) latest(ctx context.Context, platform string) (dbgen.AppVersion, bool, error) {
	var best dbgen.AppVersion
	found := false
	candidates := []string{platform}
	if platform != PlatformAll {
		candidates = append(candidates, PlatformAll)
	}
	for _, p := range candidates {
		row, err := s.Queries.GetLatestAppVersion(ctx, p)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			}
			return dbgen.AppVersion{}, false, fmt.Errorf("latest app version: %w", err)
		}
		if !found || row.CreatedAt.Time.After(best.CreatedAt.Time) {
			best, found = row, true
		}
	}
	return best, found, nil
}

// PublishInput is the admin payload for a new release.
type PublishInput struct {
	Platform            string  `json:"platform" validate:"required,oneof=android ios all"`
	Version             string  `json:"version" validate:"required,max=20"`
	MinSupportedVersion string  `json:"min_supported_version" validate:"omitempty,max=20"`
	ForceUpdate         bool    `json:"force_update"`
	ReleaseNotes        *string `json:"release_notes" validate:"omitempty,max=2000"`
	Notify              bool    `json:"notify"`
}

// Publish records a release and optionally announces it to devices.
func (s *Service) Publish(ctx context.Context, in PublishInput) (Release, error) {
	if !valid(in.Version) {
		return Release{}, ErrInvalidVersion
	}
	minSupported := strings.TrimSpace(in.MinSupportedVersion)
	if minSupported == "" {
		minSupported = in.Version
	}
	if !valid(minSupported) || Compare(minSupported, in.Version) > 0 {
		return Release{}, ErrInvalidVersion
	}
	row, err := s.Queries.CreateAppVersion(ctx, dbgen.CreateAppVersionParams{
		Platform:            in.Platform,
		Version:             in.Version,
		MinSupportedVersion: minSupported,
		ForceUpdate:         in.ForceUpdate,
		ReleaseNotes:        common.TextPtr(in.ReleaseNotes),
	})
	if err != nil {
		return Release{}, fmt.Errorf("create app version: %w", err)
	}
	if in.Notify && s.Announcer != nil {
		notes := ""
		if in.ReleaseNotes != nil {
			notes = *in.ReleaseNotes
		}
		if err := s.Announcer.AppUpdate(ctx, row.Version, row.Platform, notes, row.ForceUpdate); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("version", row.Version).Msg("announce app update")
		}
	}
	return toRelease(row), nil
}

// Compare orders two dotted versions like "1.4.2". Missing components count as zero.
func Compare(a, b string) int {
	return semver.Compare(canonical(a), canonical(b))
}

func valid(v string) bool {
	return semver.IsValid(canonical(v))
}

func canonical(v string) string {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

func toRelease(row dbgen.AppVersion) Release {
	return Release{
		ID:                  common.UUIDString(row.ID),
		Platform:            row.Platform,
		Version:             row.Version,
		MinSupportedVersion: row.MinSupportedVersion,
		ForceUpdate:         row.ForceUpdate,
		ReleaseNotes:        common.OptionalText(row.ReleaseNotes),
		CreatedAt:           row.CreatedAt.Time,
	}
}

// AsAppError maps appversion errors to HTTP responses.
func AsAppError(err error) *common.AppError {
	var appErr *common.AppError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, ErrInvalidVersion):
		e := common.NewAppError(common.CodeValidation, "invalid payload", http.StatusBadRequest, err)
		e.Details = map[string]string{"version": "must look like 1.2.3"}
		return e
	default:
		return common.NewAppError(common.CodeInternal, "internal server error", http.StatusInternalServerError, err)
	}
}
