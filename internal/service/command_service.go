package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"regexp"
	"strings"

	"github.com/spec-kit/assistant-backend/internal/domain"
	"github.com/spec-kit/assistant-backend/internal/repository"
	apperrors "github.com/spec-kit/assistant-backend/pkg/util/errorutil"
)

var dangerousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\brm\s+-rf\b`),
	regexp.MustCompile(`(?i)\bformat\s+\w+:`),
	regexp.MustCompile(`(?i)\bchmod\s+777\b`),
	regexp.MustCompile(`\$\(`),
	regexp.MustCompile("`"),
	regexp.MustCompile(`(?i)\bexec\b`),
	regexp.MustCompile(`(?i)\beval\b`),
}

var safeCommands = map[string]struct{}{
	"hello":               {},
	"status":              {},
	"help":                {},
	"security status":     {},
	"performance metrics": {},
}

// CommandService stores assistant commands after a safety check.
// Device-control commands additionally require a valid pairing token.
type CommandService struct {
	commands repository.CommandRepository
	pairings repository.PairingRepository
}

// NewCommandService builds the service.
func NewCommandService(commands repository.CommandRepository, pairings repository.PairingRepository) *CommandService {
	return &CommandService{commands: commands, pairings: pairings}
}

// ValidateSafety checks a command against the known-safe list and the
// dangerous-pattern blocklist.
func (s *CommandService) ValidateSafety(text string) (bool, string) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if _, ok := safeCommands[normalized]; ok {
		return true, "command approved"
	}
	for _, pattern := range dangerousPatterns {
		if pattern.MatchString(text) {
			return false, "command contains dangerous patterns"
		}
	}
	return true, "command requires additional verification"
}

// Submit validates and stores a command. pairingToken may be empty for
// commands that do not touch devices.
func (s *CommandService) Submit(ctx context.Context, text, pairingToken string) (*domain.Command, string, error) {
	ok, note := s.ValidateSafety(text)
	if !ok {
		return nil, "", apperrors.NewValidationError(note, nil)
	}

	if isDeviceControl(text) {
		if pairingToken == "" {
			return nil, "", apperrors.NewUnauthenticated("pairing required for device control")
		}
		paired, err := s.pairings.Exists(ctx, pairingToken)
		if err != nil {
			return nil, "", apperrors.NewStoreUnavailable(err)
		}
		if !paired {
			return nil, "", apperrors.NewUnauthenticated("pairing required for device control")
		}
	}

	command := &domain.Command{Text: text}
	if err := s.commands.Create(ctx, command); err != nil {
		return nil, "", apperrors.NewStoreUnavailable(err)
	}
	return command, note, nil
}

// List pages through stored commands.
func (s *CommandService) List(ctx context.Context, limit, offset int) ([]domain.Command, error) {
	if limit <= 0 {
		limit = 100
	}
	commands, err := s.commands.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return commands, nil
}

// CreatePairing issues an opaque pairing token for a device.
func (s *CommandService) CreatePairing(ctx context.Context, deviceName string) (*domain.Pairing, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	pairing := &domain.Pairing{
		Token:      base64.RawURLEncoding.EncodeToString(buf),
		DeviceName: deviceName,
	}
	if err := s.pairings.Create(ctx, pairing); err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}
	return pairing, nil
}

func isDeviceControl(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "control") || strings.Contains(lower, "device:")
}
