package services

import (
	"context"
	"errors"
	"strings"

	"github.com/Dosada05/focus-tools/models"
)

var ErrAppNotFound = errors.New("app not found")

var appCatalogue = []models.AppOption{
	{
		ID:          "dangerous-writing",
		Name:        "Dangerous Writing",
		Description: "A writing challenge that keeps you typing. Stop for too long and lose your progress!",
		Icon:        "✍️",
		Category:    "Productivity",
		Path:        "/api/challenges",
	},
	{
		ID:          "task-prioritizer",
		Name:        "Task Prioritizer",
		Description: "Use the Swiss System tournament format to prioritize your tasks through head-to-head comparisons.",
		Icon:        "🎯",
		Category:    "Productivity",
		Path:        "/api/tournaments",
	},
	{
		ID:          "task-manager",
		Name:        "Task Manager",
		Description: "Organize your daily tasks with a sleek, intuitive interface.",
		Icon:        "📋",
		Category:    "Productivity",
		ComingSoon:  true,
	},
	{
		ID:          "weather-dashboard",
		Name:        "Weather Dashboard",
		Description: "Check the weather with beautiful visualizations and forecasts.",
		Icon:        "🌤️",
		Category:    "Utilities",
		ComingSoon:  true,
	},
	{
		ID:          "expense-tracker",
		Name:        "Expense Tracker",
		Description: "Track your expenses and manage your budget with smart insights.",
		Icon:        "💰",
		Category:    "Finance",
		ComingSoon:  true,
	},
	{
		ID:          "habit-tracker",
		Name:        "Habit Tracker",
		Description: "Build better habits with streak tracking and motivational insights.",
		Icon:        "🎯",
		Category:    "Health & Wellness",
		ComingSoon:  true,
	},
	{
		ID:          "note-taking",
		Name:        "Note Taking",
		Description: "Create, organize, and search through your notes with markdown support.",
		Icon:        "📝",
		Category:    "Productivity",
		ComingSoon:  true,
	},
}

type AppListFilter struct {
	Category      string
	AvailableOnly bool
}

// AppService serves the read-only tool menu.
type AppService interface {
	ListApps(ctx context.Context, filter AppListFilter) []models.AppOption
	GetApp(ctx context.Context, id string) (*models.AppOption, error)
}

type appService struct {
	apps []models.AppOption
}

func NewAppService() AppService {
	return &appService{apps: appCatalogue}
}

func (s *appService) ListApps(ctx context.Context, filter AppListFilter) []models.AppOption {
	out := make([]models.AppOption, 0, len(s.apps))
	for _, app := range s.apps {
		if filter.AvailableOnly && app.ComingSoon {
			continue
		}
		if filter.Category != "" && !strings.EqualFold(filter.Category, app.Category) {
			continue
		}
		out = append(out, app)
	}
	return out
}

func (s *appService) GetApp(ctx context.Context, id string) (*models.AppOption, error) {
	for _, app := range s.apps {
		if app.ID == id {
			found := app
			return &found, nil
		}
	}
	return nil, ErrAppNotFound
}
