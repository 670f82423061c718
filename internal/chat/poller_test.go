package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"arch-market-go/internal/model"
	"arch-market-go/pkg/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource 模拟后端消息端点。
type fakeSource struct {
	mu       sync.Mutex
	snapshot []model.ChatMessage
	sendErr  error
	// echoToSnapshot 控制发送成功后服务端是否把消息并入快照（模拟持久化可见）
	echoToSnapshot bool
	fetchCount     int
	// onSend 在 SendMessage 返回前被调用（持锁之外），用于注入并发事件
	onSend func()
}

func (f *fakeSource) Messages(ctx context.Context, token string, target api.ConversationTarget) ([]model.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCount++
	out := make([]model.ChatMessage, len(f.snapshot))
	copy(out, f.snapshot)
	return out, nil
}

func (f *fakeSource) SendMessage(ctx context.Context, token string, target api.ConversationTarget, text, clientRef string) (*model.ChatMessage, error) {
	if f.onSend != nil {
		f.onSend()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	msg := model.ChatMessage{
		ID:         "m-" + clientRef,
		ClientRef:  clientRef,
		SenderRole: "client",
		Text:       text,
		CreatedAt:  time.Now(),
	}
	if f.echoToSnapshot {
		f.snapshot = append(f.snapshot, msg)
	}
	return &msg, nil
}

func newTestPoller(source *fakeSource) *Poller {
	return newPoller(source, api.ConversationTarget{LobbyID: "client-lobby"}, "tok", "client", time.Hour)
}

func TestSendOptimisticThenConfirmed(t *testing.T) {
	source := &fakeSource{}
	poller := newTestPoller(source)

	var optimistic []model.ChatMessage
	poller.OnUpdate(func(messages []model.ChatMessage) {
		if optimistic == nil {
			optimistic = messages
		}
	})

	confirmed, err := poller.Send(context.Background(), "hello")
	require.NoError(t, err)

	// 乐观阶段：恰好一条待确认消息，角色归属正确
	require.Len(t, optimistic, 1)
	assert.True(t, optimistic[0].Pending())
	assert.Equal(t, "client", optimistic[0].SenderRole)
	assert.Equal(t, "hello", optimistic[0].Text)

	// 确认阶段：占位被原位替换，序列中仍然只有一条该文本的消息
	final := poller.Snapshot()
	require.Len(t, final, 1)
	assert.False(t, final[0].Pending())
	assert.Equal(t, confirmed.ID, final[0].ID)
	assert.Equal(t, "hello", final[0].Text)
}

func TestSendFailureRollsBack(t *testing.T) {
	source := &fakeSource{sendErr: errors.New("network down")}
	poller := newTestPoller(source)

	_, err := poller.Send(context.Background(), "hello")
	require.Error(t, err)

	// 服务端未接受的消息不得残留
	assert.Empty(t, poller.Snapshot())
}

func TestSendRejectsEmptyText(t *testing.T) {
	poller := newTestPoller(&fakeSource{})

	_, err := poller.Send(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyText)
	assert.Empty(t, poller.Snapshot())
}

func TestRefreshKeepsUnechoedPending(t *testing.T) {
	confirmedB := model.ChatMessage{ID: "m-b", Text: "B", CreatedAt: time.Now()}
	source := &fakeSource{snapshot: []model.ChatMessage{confirmedB}}
	poller := newTestPoller(source)

	// 手工构造一条尚未被服务端回显的待确认消息
	pending := model.ChatMessage{
		ID:        model.PendingIDPrefix + "1",
		ClientRef: "ref-a",
		Text:      "A",
	}
	poller.mu.Lock()
	poller.messages = append(poller.messages, pending)
	poller.mu.Unlock()

	poller.refresh(context.Background())

	// 快照在前，未回显的待确认消息保留在后
	got := poller.Snapshot()
	require.Len(t, got, 2)
	assert.Equal(t, "m-b", got[0].ID)
	assert.Equal(t, pending.ID, got[1].ID)
}

func TestRefreshDropsEchoedPending(t *testing.T) {
	echoed := model.ChatMessage{ID: "m-a", ClientRef: "ref-a", Text: "A", CreatedAt: time.Now()}
	source := &fakeSource{snapshot: []model.ChatMessage{echoed}}
	poller := newTestPoller(source)

	pending := model.ChatMessage{
		ID:        model.PendingIDPrefix + "1",
		ClientRef: "ref-a",
		Text:      "A",
	}
	poller.mu.Lock()
	poller.messages = append(poller.messages, pending)
	poller.mu.Unlock()

	poller.refresh(context.Background())

	// clientRef 已被快照回显：待确认占位被服务端记录取代，不重复
	got := poller.Snapshot()
	require.Len(t, got, 1)
	assert.Equal(t, "m-a", got[0].ID)
	assert.False(t, got[0].Pending())
}

func TestSendThenRefreshDoesNotDuplicate(t *testing.T) {
	source := &fakeSource{echoToSnapshot: true}
	poller := newTestPoller(source)

	confirmed, err := poller.Send(context.Background(), "hello")
	require.NoError(t, err)

	// 服务端已把这条消息并入快照，刷新后序列中仍然只有一条
	poller.refresh(context.Background())

	got := poller.Snapshot()
	require.Len(t, got, 1)
	assert.Equal(t, confirmed.ID, got[0].ID)
}

func TestRefreshOverwritesConfirmedState(t *testing.T) {
	source := &fakeSource{snapshot: []model.ChatMessage{
		{ID: "m-1", Text: "old", CreatedAt: time.Now()},
		{ID: "m-2", Text: "new", CreatedAt: time.Now()},
	}}
	poller := newTestPoller(source)

	poller.mu.Lock()
	poller.messages = []model.ChatMessage{{ID: "m-1", Text: "old"}}
	poller.mu.Unlock()

	poller.refresh(context.Background())

	// 已确认消息以服务端快照为准
	got := poller.Snapshot()
	require.Len(t, got, 2)
	assert.Equal(t, "m-2", got[1].ID)
}

func TestRunFetchesImmediatelyAndStopsOnCancel(t *testing.T) {
	source := &fakeSource{snapshot: []model.ChatMessage{{ID: "m-1", Text: "hi"}}}
	poller := newPoller(source, api.ConversationTarget{LobbyID: "client-lobby"}, "tok", "client", 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		poller.Run(ctx)
		close(done)
	}()

	// 启动时立即拉取一次
	require.Eventually(t, func() bool {
		return len(poller.Snapshot()) == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop after context cancellation")
	}

	// 停止之后不再产生新的拉取
	source.mu.Lock()
	after := source.fetchCount
	source.mu.Unlock()
	time.Sleep(50 * time.Millisecond)
	source.mu.Lock()
	assert.Equal(t, after, source.fetchCount)
	source.mu.Unlock()
}

func TestStaleFetchResultDiscarded(t *testing.T) {
	poller := newTestPoller(&fakeSource{})

	// 最新一次拉取的序号是 5
	poller.mu.Lock()
	poller.fetchSeq = 5
	poller.mu.Unlock()

	current := []model.ChatMessage{{ID: "m-current", Text: "current"}}
	require.True(t, poller.applySnapshot(5, current))

	// 模拟一个先发出但后到达的旧请求：它的结果必须被丢弃
	stale := []model.ChatMessage{{ID: "m-stale", Text: "stale"}}
	assert.False(t, poller.applySnapshot(3, stale))

	got := poller.Snapshot()
	require.Len(t, got, 1)
	assert.Equal(t, "m-current", got[0].ID)
}

func TestSendAfterStopIsRejected(t *testing.T) {
	source := &fakeSource{sendErr: errors.New("network down")}
	poller := newTestPoller(source)

	var notifications int
	poller.OnUpdate(func([]model.ChatMessage) {
		notifications++
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// Run 在已取消的 ctx 上立即返回并置位停止标志
	poller.Run(ctx)
	before := notifications

	_, err := poller.Send(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrStopped)

	// 停止之后不得再有任何状态更新或回调
	assert.Equal(t, before, notifications)
	assert.Empty(t, poller.Snapshot())
}

func TestStopDuringInflightSendSkipsMutation(t *testing.T) {
	source := &fakeSource{echoToSnapshot: true}
	poller := newTestPoller(source)

	var notifications int
	poller.OnUpdate(func([]model.ChatMessage) {
		notifications++
	})

	// 发送在途时轮询器被停止：确认替换不再落地，回调不再触发
	source.onSend = func() {
		poller.mu.Lock()
		poller.stopped = true
		poller.mu.Unlock()
	}

	confirmed, err := poller.Send(context.Background(), "hello")
	require.NoError(t, err)
	require.NotNil(t, confirmed)

	// 只有乐观追加那一次回调
	assert.Equal(t, 1, notifications)
	got := poller.Snapshot()
	require.Len(t, got, 1)
	assert.True(t, got[0].Pending())
}

func TestNoApplyAfterStop(t *testing.T) {
	poller := newTestPoller(&fakeSource{})

	poller.mu.Lock()
	poller.stopped = true
	poller.mu.Unlock()

	assert.False(t, poller.applySnapshot(1, []model.ChatMessage{{ID: "m-late"}}))
	assert.Empty(t, poller.Snapshot())
}
