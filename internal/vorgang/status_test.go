package vorgang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exportdesk/exportdesk/pkg/filename"
)

func TestParseStatus(t *testing.T) {
	for _, s := range Statuses {
		parsed, err := ParseStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := ParseStatus("erledigt")
	assert.Error(t, err)

	_, err = ParseStatus("")
	assert.Error(t, err)
}

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"angelegt to beantragt", StatusAngelegt, StatusAusfuhrBeantragt, true},
		{"angelegt to abd", StatusAngelegt, StatusABDErhalten, true},
		{"angelegt to agv", StatusAngelegt, StatusAGVVorliegend, true},
		{"beantragt back to angelegt", StatusAusfuhrBeantragt, StatusAngelegt, true},
		{"beantragt to abd", StatusAusfuhrBeantragt, StatusABDErhalten, true},
		{"abd to agv", StatusABDErhalten, StatusAGVVorliegend, true},
		{"abd back to angelegt", StatusABDErhalten, StatusAngelegt, false},
		{"abd back to beantragt", StatusABDErhalten, StatusAusfuhrBeantragt, false},
		{"agv is terminal", StatusAGVVorliegend, StatusABDErhalten, false},
		{"agv back to angelegt", StatusAGVVorliegend, StatusAngelegt, false},
		{"self transition is a no-op", StatusABDErhalten, StatusABDErhalten, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestToggle(t *testing.T) {
	next, ok := StatusAngelegt.Toggle()
	require.True(t, ok)
	assert.Equal(t, StatusAusfuhrBeantragt, next)

	next, ok = StatusAusfuhrBeantragt.Toggle()
	require.True(t, ok)
	assert.Equal(t, StatusAngelegt, next)

	_, ok = StatusABDErhalten.Toggle()
	assert.False(t, ok)

	_, ok = StatusAGVVorliegend.Toggle()
	assert.False(t, ok)
}

func TestNextForUpload(t *testing.T) {
	tests := []struct {
		name    string
		current Status
		kind    filename.Kind
		want    Status
		changed bool
	}{
		{"abd advances angelegt", StatusAngelegt, filename.KindABD, StatusABDErhalten, true},
		{"abd advances beantragt", StatusAusfuhrBeantragt, filename.KindABD, StatusABDErhalten, true},
		{"abd does not regress abd", StatusABDErhalten, filename.KindABD, StatusABDErhalten, false},
		{"abd does not regress agv", StatusAGVVorliegend, filename.KindABD, StatusAGVVorliegend, false},
		{"agv always completes", StatusAngelegt, filename.KindAGV, StatusAGVVorliegend, true},
		{"agv completes from abd", StatusABDErhalten, filename.KindAGV, StatusAGVVorliegend, true},
		{"agv is idempotent", StatusAGVVorliegend, filename.KindAGV, StatusAGVVorliegend, false},
		{"invoice never advances", StatusAngelegt, filename.KindRechnung, StatusAngelegt, false},
		{"atlas never advances", StatusAusfuhrBeantragt, filename.KindAtlas, StatusAusfuhrBeantragt, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := NextForUpload(tt.current, tt.kind)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.changed, changed)
		})
	}
}
