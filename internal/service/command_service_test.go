package service

import (
	"context"
	"sync"
	"testing"

	"github.com/spec-kit/assistant-backend/internal/domain"
	apperrors "github.com/spec-kit/assistant-backend/pkg/util/errorutil"
)

type memCommandRepo struct {
	mu       sync.Mutex
	commands []domain.Command
}

func (r *memCommandRepo) Create(ctx context.Context, c *domain.Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, *c)
	return nil
}

func (r *memCommandRepo) List(ctx context.Context, limit, offset int) ([]domain.Command, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if offset > len(r.commands) {
		offset = len(r.commands)
	}
	out := r.commands[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return append([]domain.Command(nil), out...), nil
}

type memPairingRepo struct {
	mu     sync.Mutex
	tokens map[string]domain.Pairing
}

func newMemPairingRepo() *memPairingRepo {
	return &memPairingRepo{tokens: map[string]domain.Pairing{}}
}

func (r *memPairingRepo) Create(ctx context.Context, p *domain.Pairing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[p.Token] = *p
	return nil
}

func (r *memPairingRepo) Exists(ctx context.Context, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.tokens[token]
	return ok, nil
}

func TestValidateSafety(t *testing.T) {
	svc := NewCommandService(&memCommandRepo{}, newMemPairingRepo())

	cases := []struct {
		text string
		want bool
	}{
		{"hello", true},
		{"  Status  ", true},
		{"security status", true},
		{"open the garage", true},
		{"rm -rf /", false},
		{"please RM -RF /tmp", false},
		{"chmod 777 /etc", false},
		{"echo $(whoami)", false},
		{"run `id`", false},
		{"eval something", false},
		{"exec /bin/sh", false},
	}
	for _, tc := range cases {
		ok, _ := svc.ValidateSafety(tc.text)
		if ok != tc.want {
			t.Errorf("ValidateSafety(%q) = %v, want %v", tc.text, ok, tc.want)
		}
	}
}

func TestSubmitRejectsDangerousCommand(t *testing.T) {
	repo := &memCommandRepo{}
	svc := NewCommandService(repo, newMemPairingRepo())

	_, _, err := svc.Submit(context.Background(), "rm -rf /", "")
	if err == nil {
		t.Fatal("dangerous command accepted")
	}
	if de := apperrors.ToDomainError(err); de.Code != "VALIDATION_FAILED" {
		t.Errorf("code = %q, want VALIDATION_FAILED", de.Code)
	}
	if len(repo.commands) != 0 {
		t.Error("rejected command was stored")
	}
}

func TestSubmitDeviceControlRequiresPairing(t *testing.T) {
	pairings := newMemPairingRepo()
	svc := NewCommandService(&memCommandRepo{}, pairings)
	ctx := context.Background()

	_, _, err := svc.Submit(ctx, "control the living room lights", "")
	if err == nil {
		t.Fatal("device-control command accepted without pairing")
	}
	if de := apperrors.ToDomainError(err); de.Code != "UNAUTHENTICATED" {
		t.Errorf("code = %q, want UNAUTHENTICATED", de.Code)
	}

	_, _, err = svc.Submit(ctx, "control the living room lights", "made-up-token")
	if err == nil {
		t.Fatal("device-control command accepted with unknown pairing token")
	}

	pairing, err := svc.CreatePairing(ctx, "living-room-hub")
	if err != nil {
		t.Fatalf("create pairing: %v", err)
	}
	cmd, _, err := svc.Submit(ctx, "control the living room lights", pairing.Token)
	if err != nil {
		t.Fatalf("submit with valid pairing: %v", err)
	}
	if cmd.Text != "control the living room lights" {
		t.Errorf("stored text = %q", cmd.Text)
	}
}

func TestSubmitPlainCommandNeedsNoPairing(t *testing.T) {
	repo := &memCommandRepo{}
	svc := NewCommandService(repo, newMemPairingRepo())

	if _, _, err := svc.Submit(context.Background(), "hello", ""); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(repo.commands) != 1 {
		t.Errorf("stored commands = %d, want 1", len(repo.commands))
	}
}

func TestListPaging(t *testing.T) {
	repo := &memCommandRepo{}
	svc := NewCommandService(repo, newMemPairingRepo())
	ctx := context.Background()

	for _, text := range []string{"hello", "status", "help"} {
		if _, _, err := svc.Submit(ctx, text, ""); err != nil {
			t.Fatalf("submit %q: %v", text, err)
		}
	}

	page, err := svc.List(ctx, 2, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 2 {
		t.Errorf("page size = %d, want 2", len(page))
	}
}
