package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Swarnab2026/colour-shop/internal/model"
	"github.com/Swarnab2026/colour-shop/internal/store"
	"github.com/Swarnab2026/colour-shop/prometheus"
)

const (
	bootstrapUsername = "admin"
	// defaultBootstrapPassword is the documented well-known default;
	// operators are expected to change it right after bootstrap.
	defaultBootstrapPassword = "changeme"
)

// dummyHash gives an unknown username the same bcrypt cost as a real
// comparison, so the two failure paths are indistinguishable from outside.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

// AdminService checks admin credentials and bootstraps the account.
type AdminService interface {
	VerifyLogin(ctx context.Context, username, password string) (string, error)
	Bootstrap(ctx context.Context) (*model.Admin, error)
}

type adminService struct {
	admins            store.AdminStore
	bootstrapPassword string
	log               *zap.Logger
}

// NewAdminService wires the credential check to its store. An empty
// bootstrapPassword selects the documented default.
func NewAdminService(admins store.AdminStore, bootstrapPassword string, log *zap.Logger) AdminService {
	if bootstrapPassword == "" {
		bootstrapPassword = defaultBootstrapPassword
	}
	return &adminService{
		admins:            admins,
		bootstrapPassword: bootstrapPassword,
		log:               log,
	}
}

// VerifyLogin compares the submitted password against the stored bcrypt
// hash. Unknown username and wrong password return the identical error.
func (s *adminService) VerifyLogin(ctx context.Context, username, password string) (string, error) {
	prometheus.AuthAttemptsCounter.Inc()

	admin, err := s.admins.ByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn the same bcrypt work as a real comparison.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			prometheus.AuthFailuresCounter.Inc()
			s.log.Warn("Admin login rejected", zap.String("username", username))
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		prometheus.AuthFailuresCounter.Inc()
		s.log.Warn("Admin login rejected", zap.String("username", username))
		return "", ErrInvalidCredentials
	}

	s.log.Info("Admin login succeeded", zap.String("username", admin.Username))
	return admin.Username, nil
}

// Bootstrap creates the single admin account. Running it again is a safe
// no-op that reports ErrAdminExists.
func (s *adminService) Bootstrap(ctx context.Context) (*model.Admin, error) {
	_, err := s.admins.ByUsername(ctx, bootstrapUsername)
	if err == nil {
		return nil, ErrAdminExists
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.bootstrapPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash bootstrap password: %w", err)
	}

	admin := &model.Admin{
		Username:     bootstrapUsername,
		PasswordHash: string(hash),
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		// A concurrent bootstrap can win the insert after the existence
		// check; the unique index settles it.
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, ErrAdminExists
		}
		return nil, err
	}

	s.log.Info("Bootstrap admin account created", zap.String("username", admin.Username))
	return admin, nil
}
