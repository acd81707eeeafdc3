package remote

import (
	"context"
	"errors"
	"sync"
)

var (
	registryMu sync.Mutex
	registered Connector
)

// Register installs the protocol client implementation, typically from an
// init function in the package providing it. The same registration pattern
// as database/sql drivers: the binary decides which client it links in.
func Register(c Connector) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if c == nil {
		panic("remote: Register called with nil Connector")
	}
	registered = c
}

// Default returns the registered Connector, or one whose Connect always
// fails when no protocol client was linked into the binary.
func Default() Connector {
	registryMu.Lock()
	defer registryMu.Unlock()
	if registered == nil {
		return unavailable{}
	}
	return registered
}

type unavailable struct{}

func (unavailable) Connect(ctx context.Context, host, user, password string, verifyCert bool) (Session, error) {
	return nil, errors.New("no remote management client is linked into this build")
}
