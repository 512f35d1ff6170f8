// Package profilestore is the app-side cache of the signed-in user's
// profile, onboarding answers and last weather lookup.
package profilestore

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/fatflowers/styler/pkg/types"
)

const WeatherTTL = time.Hour

type Profile struct {
	UserID             string                   `json:"user_id"`
	DisplayName        string                   `json:"display_name,omitempty"`
	SubscriptionTier   types.Plan               `json:"subscription_tier"`
	SubscriptionStatus types.SubscriptionStatus `json:"subscription_status,omitempty"`
	SubscriptionEnd    *time.Time               `json:"subscription_end,omitempty"`
}

type Weather struct {
	Data      json.RawMessage `json:"data"`
	FetchedAt time.Time       `json:"fetched_at"`
}

type Snapshot struct {
	Profile    *Profile          `json:"profile,omitempty"`
	Onboarding map[string]string `json:"onboarding,omitempty"`
	Weather    *Weather          `json:"weather,omitempty"`
}

// Store is loaded once per session and writes through on every mutation.
// A failed write leaves the in-memory state unchanged.
type Store struct {
	mu   sync.RWMutex
	snap Snapshot
	p    Persistence
	now  func() time.Time
}

func Open(ctx context.Context, p Persistence) (*Store, error) {
	snap, err := p.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load profile store: %w", err)
	}
	return &Store{snap: *snap, p: p, now: time.Now}, nil
}

func (s *Store) mutate(ctx context.Context, fn func(*Snapshot)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.snap
	next.Onboarding = maps.Clone(s.snap.Onboarding)
	if s.snap.Profile != nil {
		p := *s.snap.Profile
		next.Profile = &p
	}
	fn(&next)
	if err := s.p.Save(ctx, &next); err != nil {
		return fmt.Errorf("save profile store: %w", err)
	}
	s.snap = next
	return nil
}

// Profile returns a copy of the cached profile, or nil.
func (s *Store) Profile() *Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap.Profile == nil {
		return nil
	}
	p := *s.snap.Profile
	return &p
}

func (s *Store) SetProfile(ctx context.Context, p Profile) error {
	return s.mutate(ctx, func(snap *Snapshot) { snap.Profile = &p })
}

// ApplyStatus mirrors a check-subscription answer onto the cached profile.
func (s *Store) ApplyStatus(ctx context.Context, st *types.SubscriptionStatusInfo) error {
	return s.mutate(ctx, func(snap *Snapshot) {
		if snap.Profile == nil {
			snap.Profile = &Profile{}
		}
		p := snap.Profile
		if st.Subscribed && st.SubscriptionTier != nil {
			p.SubscriptionTier = *st.SubscriptionTier
			p.SubscriptionStatus = types.SubscriptionStatusActive
			p.SubscriptionEnd = st.SubscriptionEnd
			return
		}
		if p.SubscriptionStatus == types.SubscriptionStatusActive {
			p.SubscriptionStatus = types.SubscriptionStatusExpired
		}
		p.SubscriptionTier = types.PlanFree
		p.SubscriptionEnd = nil
	})
}

// IsPremium reports whether the cached profile holds a paid plan that has
// not ended yet.
func (s *Store) IsPremium() bool {
	p := s.Profile()
	if p == nil || !p.SubscriptionTier.IsPaid() || p.SubscriptionStatus != types.SubscriptionStatusActive {
		return false
	}
	return p.SubscriptionEnd == nil || p.SubscriptionEnd.After(s.now())
}

func (s *Store) Onboarding() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.snap.Onboarding)
}

func (s *Store) SetOnboardingAnswer(ctx context.Context, question, answer string) error {
	return s.mutate(ctx, func(snap *Snapshot) {
		if snap.Onboarding == nil {
			snap.Onboarding = map[string]string{}
		}
		snap.Onboarding[question] = answer
	})
}

// Weather returns the cached lookup while it is younger than WeatherTTL.
func (s *Store) Weather() (json.RawMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w := s.snap.Weather
	if w == nil || s.now().Sub(w.FetchedAt) >= WeatherTTL {
		return nil, false
	}
	return w.Data, true
}

func (s *Store) SetWeather(ctx context.Context, data json.RawMessage) error {
	now := s.now()
	return s.mutate(ctx, func(snap *Snapshot) { snap.Weather = &Weather{Data: data, FetchedAt: now} })
}

// Clear drops everything, for sign-out.
func (s *Store) Clear(ctx context.Context) error {
	return s.mutate(ctx, func(snap *Snapshot) { *snap = Snapshot{} })
}
