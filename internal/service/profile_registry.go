package service

import "sync"

// ProfileRegistry holds parsed resume profiles between upload and
// interview start. Profiles are keyed by the candidate id issued at
// upload time.
type ProfileRegistry struct {
	mu       sync.RWMutex
	profiles map[string]*ResumeProfile
}

func NewProfileRegistry() *ProfileRegistry {
	return &ProfileRegistry{profiles: make(map[string]*ResumeProfile)}
}

func (r *ProfileRegistry) Put(candidateID string, profile *ResumeProfile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[candidateID] = profile
}

func (r *ProfileRegistry) Get(candidateID string) (*ResumeProfile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	profile, ok := r.profiles[candidateID]
	return profile, ok
}
