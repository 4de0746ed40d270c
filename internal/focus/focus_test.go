package focus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/dshills/insights/internal/actions"
	"github.com/dshills/insights/internal/stores"
)

type countingRequester struct {
	calls int
}

func (r *countingRequester) ScrollRequested() {
	r.calls++
}

func storeData(target []string) TargetPageStoreData {
	return TargetPageStoreData{VisualizationStoreData: stores.VisualizationStoreData{FocusedTarget: target}}
}

func newHandler(t *testing.T) (*ChangeHandler, *countingRequester, *LogScrollingController) {
	t.Helper()
	requester := &countingRequester{}
	controller := NewLogScrollingController(zaptest.NewLogger(t))
	return NewChangeHandler(requester, controller), requester, controller
}

func TestNilTarget(t *testing.T) {
	h, requester, controller := newHandler(t)

	h.HandleFocusChangeWithStoreData(storeData(nil))

	assert.Zero(t, requester.calls)
	assert.Empty(t, controller.Requests())
}

func TestNewTarget(t *testing.T) {
	h, requester, controller := newHandler(t)
	target := []string{"some", "target"}

	h.HandleFocusChangeWithStoreData(storeData(target))

	assert.Equal(t, 1, requester.calls)
	assert.Equal(t, []ScrollingWindowMessage{{FocusedTarget: target}}, controller.Requests())
}

func TestSameTargetTwice(t *testing.T) {
	h, requester, controller := newHandler(t)

	h.HandleFocusChangeWithStoreData(storeData([]string{"some", "target"}))
	h.HandleFocusChangeWithStoreData(storeData([]string{"some", "target"}))

	assert.Equal(t, 1, requester.calls)
	assert.Len(t, controller.Requests(), 1)
}

func TestTargetChanges(t *testing.T) {
	h, requester, controller := newHandler(t)

	h.HandleFocusChangeWithStoreData(storeData([]string{"a"}))
	h.HandleFocusChangeWithStoreData(storeData([]string{"b"}))
	h.HandleFocusChangeWithStoreData(storeData(nil))
	h.HandleFocusChangeWithStoreData(storeData([]string{"b"}))

	assert.Equal(t, 3, requester.calls)
	require.Len(t, controller.Requests(), 3)
	assert.Equal(t, []string{"b"}, controller.Requests()[2].FocusedTarget)
}

func TestAttachToStore(t *testing.T) {
	a := actions.NewVisualizationActions()
	store := stores.NewVisualizationStore(a)
	h, requester, controller := newHandler(t)
	h.Attach(store)

	a.UpdateFocusedInstance.Invoke(actions.UpdateFocusedInstancePayload{Target: []string{"#main"}})
	a.ScrollRequested.Invoke(struct{}{})

	assert.Equal(t, 1, requester.calls, "unrelated store changes must not scroll again")
	assert.Len(t, controller.Requests(), 1)
}
