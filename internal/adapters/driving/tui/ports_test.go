package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/chatdesk/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/chatdesk/internal/core/domain"
	"github.com/custodia-labs/chatdesk/internal/core/services"
)

func TestNewPorts(t *testing.T) {
	threads := services.NewThreadService(memory.NewThreadStore())
	session := services.NewSearchSession(domain.SearchSettings{})
	defer session.Close()

	ports := NewPorts(threads, session)

	require.NotNil(t, ports)
	assert.Equal(t, threads, ports.Threads)
	assert.Equal(t, session, ports.Session)
	assert.Nil(t, ports.Chat)
	assert.NoError(t, ports.Validate())
}

func TestPorts_Validate(t *testing.T) {
	threads := services.NewThreadService(memory.NewThreadStore())
	session := services.NewSearchSession(domain.SearchSettings{})
	defer session.Close()

	tests := []struct {
		name  string
		ports *Ports
		want  error
	}{
		{name: "nil ports", ports: nil, want: ErrInvalidPorts},
		{name: "missing threads", ports: &Ports{Session: session}, want: ErrMissingThreadService},
		{name: "missing session", ports: &Ports{Threads: threads}, want: ErrMissingSearchSession},
		{name: "complete", ports: &Ports{Threads: threads, Session: session}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
