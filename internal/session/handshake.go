package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dshills/dapdebug/internal/dap"
)

// Start runs the initialize → (launch/attach ‖ configurationDone) handshake
// described in §4.3. Both "initialized" arriving and the launch/attach
// response and the configurationDone response must complete before the
// session is considered ready; a 30s startup timeout guards the whole
// sequence, after which the client is closed and the session fails.
func (s *Session) Start(ctx context.Context, cfg Config) error {
	if (cfg.LaunchArgs == nil) == (cfg.AttachArgs == nil) {
		return fmt.Errorf("session: exactly one of LaunchArgs or AttachArgs must be set")
	}

	ctx, cancel := context.WithTimeout(ctx, StartupTimeout)
	defer cancel()

	caps, err := s.client.Initialize(ctx, Profile(cfg.ClientID, cfg.ClientName, cfg.AdapterID))
	if err != nil {
		_ = s.client.Close()
		return fmt.Errorf("initialize: %w", err)
	}
	s.capabilities.Store(caps)
	s.setState(StateAwaitingInitialized)

	launchErrCh := make(chan error, 1)
	go func() {
		if cfg.LaunchArgs != nil {
			launchErrCh <- s.client.Launch(ctx, cfg.LaunchArgs)
		} else {
			launchErrCh <- s.client.Attach(ctx, cfg.AttachArgs)
		}
	}()

	select {
	case <-ctx.Done():
		_ = s.client.Close()
		return fmt.Errorf("%w: waiting for initialized event", dap.ErrTimeout)
	case <-s.initializedCh:
	}

	if s.hooks.BeforeConfigurationDone != nil {
		if err := s.hooks.BeforeConfigurationDone(ctx, s); err != nil {
			_ = s.client.Close()
			return fmt.Errorf("beforeConfigurationDone: %w", err)
		}
	}

	cfgErrCh := make(chan error, 1)
	go func() { cfgErrCh <- s.client.ConfigurationDone(ctx) }()

	var launchErr, cfgErr error
	pending := 2
	for pending > 0 {
		select {
		case <-ctx.Done():
			_ = s.client.Close()
			return fmt.Errorf("%w: handshake did not complete", dap.ErrTimeout)
		case launchErr = <-launchErrCh:
			pending--
		case cfgErr = <-cfgErrCh:
			pending--
		}
	}
	if launchErr != nil {
		_ = s.client.Close()
		return fmt.Errorf("launch/attach: %w", launchErr)
	}
	if cfgErr != nil {
		_ = s.client.Close()
		return fmt.Errorf("configurationDone: %w", cfgErr)
	}

	s.setState(StateReady)
	s.setState(StateRunning)
	return nil
}

// marshalArgs is a small helper for adapter-specific launch/attach argument
// construction callers (internal/adapters) typically perform with sjson;
// it exists so callers that already hold a plain struct can still produce
// the json.RawMessage Config expects.
func marshalArgs(v interface{}) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal args: %w", err)
	}
	return b, nil
}
