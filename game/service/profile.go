package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/wricardo/brainstress/game/store"
)

// DefaultNickname is shown until the player picks one
const DefaultNickname = "Anonymous"

// MaxNicknameLength bounds SetNickname input, in runes
const MaxNicknameLength = 32

// Greeting returns the salutation for an hour of the day (0-23)
func Greeting(hour int) string {
	switch {
	case hour >= 6 && hour <= 11:
		return "Morning,"
	case hour == 12:
		return "Good day,"
	case hour >= 13 && hour <= 16:
		return "Good afternoon,"
	case hour >= 17 && hour <= 21:
		return "Good evening,"
	default:
		return "Hello,"
	}
}

// GetProfile builds the home screen profile. The welcome alert is reported
// once; reading the profile marks it as shown.
func (s *gameServiceImpl) GetProfile(ctx context.Context) (*Profile, error) {
	nickname, err := s.store.Nickname(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load nickname: %w", err)
	}
	if nickname == "" {
		nickname = DefaultNickname
	}

	shown, err := s.store.Flag(ctx, store.WelcomeAlertShown)
	if err != nil {
		return nil, fmt.Errorf("failed to load welcome flag: %w", err)
	}
	if !shown {
		if err := s.store.SetFlag(ctx, store.WelcomeAlertShown, true); err != nil {
			return nil, fmt.Errorf("failed to save welcome flag: %w", err)
		}
	}

	return &Profile{
		Nickname:    nickname,
		Greeting:    Greeting(s.now().Hour()),
		ShowWelcome: !shown,
	}, nil
}

// SetNickname stores a trimmed nickname. An empty one restores the default.
func (s *gameServiceImpl) SetNickname(ctx context.Context, nickname string) (*Profile, error) {
	nickname = strings.TrimSpace(nickname)
	if len([]rune(nickname)) > MaxNicknameLength {
		return nil, fmt.Errorf("%w: nickname longer than %d characters", ErrInvalidRequest, MaxNicknameLength)
	}
	if err := s.store.SetNickname(ctx, nickname); err != nil {
		return nil, fmt.Errorf("failed to save nickname: %w", err)
	}

	if nickname == "" {
		nickname = DefaultNickname
	}
	return &Profile{
		Nickname: nickname,
		Greeting: Greeting(s.now().Hour()),
	}, nil
}

// GetStats returns the counters of a catalog quiz
func (s *gameServiceImpl) GetStats(ctx context.Context, quizID string) (*StatsInfo, error) {
	info, err := s.catalog.GetInfo(quizID)
	if err != nil {
		return nil, err
	}

	stats, err := s.store.Stats(ctx, info.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}
	return &StatsInfo{
		QuizID: info.ID,
		Title:  info.Title,
		Wins:   stats.Wins,
		Fails:  stats.Fails,
		Played: stats.Played(),
	}, nil
}
