package concurrent

// SettingAccess reads and writes a single process-global platform setting
// (e.g. "stay awake", "user rotation"). ScopedSetting is generic over it so
// the same restore guarantee applies to every platform setting the agent
// touches.
type SettingAccess[T comparable] struct {
	Get func() T
	Set func(T)
}

// ScopedSetting is "scoped acquisition of a platform setting with
// guaranteed restoration on all exit paths". Construction
// reads and remembers the original value; Set tracks whether a restore is
// owed; Restore (idempotent) writes the original value back exactly once
// if it currently differs.
type ScopedSetting[T comparable] struct {
	access   SettingAccess[T]
	original T
	restored bool
}

// NewScopedSetting reads the current value of access and remembers it.
func NewScopedSetting[T comparable](access SettingAccess[T]) *ScopedSetting[T] {
	return &ScopedSetting[T]{access: access, original: access.Get()}
}

// Set changes the platform setting.
func (s *ScopedSetting[T]) Set(v T) {
	s.access.Set(v)
	s.restored = false
}

// Restore writes back the original value exactly once if the setting
// currently in effect differs from it. Safe to call multiple times
// (idempotent) and from a deferred fatal-exit path.
func (s *ScopedSetting[T]) Restore() {
	if s.restored {
		return
	}
	s.restored = true
	if s.access.Get() != s.original {
		s.access.Set(s.original)
	}
}
