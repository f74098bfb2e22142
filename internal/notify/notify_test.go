package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func durationPtr(d time.Duration) *time.Duration { return &d }

func TestShow_DefaultDuration(t *testing.T) {
	t.Parallel()

	n := NewNotifier()
	id := n.Show(Alert{Kind: KindInfo, Message: "hola"})

	notifs := n.Notifications()
	require.Len(t, notifs, 1)
	assert.Equal(t, id, notifs[0].ID)
	assert.Equal(t, DefaultDuration, notifs[0].Duration)
}

func TestShow_AutoExpires(t *testing.T) {
	t.Parallel()

	n := NewNotifier()
	n.Show(Alert{Kind: KindSuccess, Message: "listo", Duration: durationPtr(30 * time.Millisecond)})

	require.Len(t, n.Notifications(), 1)

	assert.Eventually(t, func() bool {
		return len(n.Notifications()) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestShow_TinyDurationsAlwaysExpire(t *testing.T) {
	t.Parallel()

	n := NewNotifier()

	// Timers this short fire while the insert is still in flight; every one
	// of them must still clear its own notification.
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				n.Show(Alert{Kind: KindInfo, Message: "x", Duration: durationPtr(time.Nanosecond)})
			}
		}()
	}
	wg.Wait()

	assert.Eventually(t, func() bool {
		return len(n.Notifications()) == 0
	}, 5*time.Second, 10*time.Millisecond)
}

func TestShow_CarriesAction(t *testing.T) {
	t.Parallel()

	n := NewNotifier()
	clicked := false
	n.Show(Alert{
		Kind:     KindError,
		Message:  "fallo",
		Duration: durationPtr(0),
		Action:   &Action{Label: "Reintentar", OnClick: func() { clicked = true }},
	})

	notifs := n.Notifications()
	require.Len(t, notifs, 1)
	require.NotNil(t, notifs[0].Action)
	assert.Equal(t, "Reintentar", notifs[0].Action.Label)

	notifs[0].Action.OnClick()
	assert.True(t, clicked)
}

func TestShow_ZeroDurationNeverExpires(t *testing.T) {
	t.Parallel()

	n := NewNotifier()
	n.Show(Alert{Kind: KindWarning, Message: "atento", Duration: durationPtr(0)})

	time.Sleep(100 * time.Millisecond)
	assert.Len(t, n.Notifications(), 1)
}

func TestShowConfirm_NeverExpiresByTimer(t *testing.T) {
	t.Parallel()

	n := NewNotifier()
	n.ShowConfirm("¿seguro?", "Confirmar", func() {})

	time.Sleep(150 * time.Millisecond)

	notifs := n.Notifications()
	require.Len(t, notifs, 1)
	assert.Equal(t, KindConfirm, notifs[0].Kind)
	assert.Equal(t, time.Duration(0), notifs[0].Duration)
}

func TestConfirm_RunsCallbackAndRemoves(t *testing.T) {
	t.Parallel()

	n := NewNotifier()
	confirmed := false
	id := n.ShowConfirm("¿seguro?", "Confirmar", func() { confirmed = true })

	n.Confirm(id)

	assert.True(t, confirmed)
	assert.Empty(t, n.Notifications())
}

func TestCancel_RemovesWithoutConfirmCallback(t *testing.T) {
	t.Parallel()

	n := NewNotifier()
	confirmed := false
	id := n.ShowConfirm("¿seguro?", "Confirmar", func() { confirmed = true })

	n.Cancel(id)

	assert.False(t, confirmed)
	assert.Empty(t, n.Notifications())
}

func TestDismiss_Idempotent(t *testing.T) {
	t.Parallel()

	n := NewNotifier()
	id := n.Show(Alert{Kind: KindInfo, Message: "uno", Duration: durationPtr(0)})
	other := n.Show(Alert{Kind: KindInfo, Message: "dos", Duration: durationPtr(0)})

	n.Dismiss(id)
	n.Dismiss(id)
	n.Dismiss("unknown")

	notifs := n.Notifications()
	require.Len(t, notifs, 1)
	assert.Equal(t, other, notifs[0].ID)
}

func TestDismiss_StopsTimer(t *testing.T) {
	t.Parallel()

	n := NewNotifier()
	id := n.Show(Alert{Kind: KindInfo, Message: "uno", Duration: durationPtr(40 * time.Millisecond)})
	keep := n.Show(Alert{Kind: KindInfo, Message: "dos", Duration: durationPtr(0)})

	n.Dismiss(id)
	time.Sleep(100 * time.Millisecond)

	// The late timer must not remove a different notification.
	notifs := n.Notifications()
	require.Len(t, notifs, 1)
	assert.Equal(t, keep, notifs[0].ID)
}

func TestClear(t *testing.T) {
	t.Parallel()

	n := NewNotifier()
	n.Show(Alert{Kind: KindInfo, Message: "uno", Duration: durationPtr(0)})
	n.ShowConfirm("¿seguro?", "", func() {})

	n.Clear()
	assert.Empty(t, n.Notifications())
}

func TestInsertionOrderPreserved(t *testing.T) {
	t.Parallel()

	n := NewNotifier()
	first := n.Show(Alert{Kind: KindInfo, Message: "uno", Duration: durationPtr(0)})
	second := n.Show(Alert{Kind: KindError, Message: "dos", Duration: durationPtr(0)})
	third := n.Show(Alert{Kind: KindSuccess, Message: "tres", Duration: durationPtr(0)})

	notifs := n.Notifications()
	require.Len(t, notifs, 3)
	assert.Equal(t, []string{first, second, third}, []string{notifs[0].ID, notifs[1].ID, notifs[2].ID})
}
