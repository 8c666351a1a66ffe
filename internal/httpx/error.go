package httpx

import "github.com/TwigBush/uma-go/internal/uma"

// SafeErrMsg renders err for a response body. Server-side faults collapse
// to their code so internals (addresses, key paths) never reach clients;
// client errors keep their message.
func SafeErrMsg(err error) string {
	switch {
	case err == nil:
		return ""
	case uma.IsServer(err):
		return string(uma.CodeOf(err))
	default:
		return err.Error()
	}
}
