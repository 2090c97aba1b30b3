package platform

import "github.com/screenshare/agent/internal/accessor"

// CodecProvider is the unimplemented hardware-encoder binding; see
// platform.go. Nothing in this module's dependency set wraps a real
// hardware video encoder, so FindEncoder always fails with
// accessor.ErrUnsupported, which internal/session.Bootstrap turns into a
// fatal.NoEncoder exit before any socket is opened — exactly the failure
// mode a build running on an unsupported host should surface.
type CodecProvider struct{}

func NewCodecProvider() *CodecProvider { return &CodecProvider{} }

func (*CodecProvider) FindEncoder(string) (accessor.CodecInfo, error) {
	return accessor.CodecInfo{}, accessor.ErrUnsupported
}

func (*CodecProvider) Acquire(accessor.CodecInfo) (accessor.Codec, error) {
	return nil, accessor.ErrUnsupported
}
