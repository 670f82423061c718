// Package chat 实现了会话的轮询同步与乐观发送。
// 在没有推送通道的前提下，轮询端以固定间隔拉取完整消息序列，
// 并通过 clientRef 幂等引用与本地待确认消息对账。
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"arch-market-go/internal/model"
	"arch-market-go/pkg/api"
	"arch-market-go/pkg/log"

	"github.com/google/uuid"
)

var (
	// ErrEmptyText 表示发送内容去除空白后为空。
	ErrEmptyText = errors.New("消息内容不能为空")
	// ErrStopped 表示轮询器已随 ctx 取消而停止，不再接受发送。
	ErrStopped = errors.New("会话轮询已停止")
)

// messageSource 是轮询端对后端的最小依赖，便于测试替换。
type messageSource interface {
	Messages(ctx context.Context, token string, target api.ConversationTarget) ([]model.ChatMessage, error)
	SendMessage(ctx context.Context, token string, target api.ConversationTarget, text, clientRef string) (*model.ChatMessage, error)
}

// Poller 维护一个会话的近实时视图。
// 会话标识与凭证在整个生命周期内保持不变；Run 返回后不再产生任何状态更新。
type Poller struct {
	source   messageSource
	target   api.ConversationTarget
	token    string
	role     string
	interval time.Duration

	mu       sync.Mutex
	messages []model.ChatMessage
	// fetchSeq 区分先后发出的拉取请求，旧请求的结果一律让位给新请求（以发出顺序为准）
	fetchSeq uint64
	stopped  bool

	// onUpdate 在消息序列变化后被调用（持锁之外），可为 nil
	onUpdate func([]model.ChatMessage)
}

// NewPoller 创建一个会话轮询器。
// interval 不大于零时使用 5 秒的默认间隔。
func NewPoller(source *api.Client, target api.ConversationTarget, token, role string, interval time.Duration) *Poller {
	return newPoller(source, target, token, role, interval)
}

func newPoller(source messageSource, target api.ConversationTarget, token, role string, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Poller{
		source:   source,
		target:   target,
		token:    token,
		role:     role,
		interval: interval,
	}
}

// OnUpdate 注册消息序列变化时的回调。必须在 Run 之前调用。
func (p *Poller) OnUpdate(fn func([]model.ChatMessage)) {
	p.onUpdate = fn
}

// Run 启动轮询循环：启动时立即拉取一次，此后每个固定间隔拉取一次，
// 直到 ctx 被取消。取消后定时器停止，迟到的响应不会再修改状态。
func (p *Poller) Run(ctx context.Context) {
	p.refresh(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.mu.Lock()
			p.stopped = true
			p.mu.Unlock()
			return
		case <-ticker.C:
			p.refresh(ctx)
		}
	}
}

// refresh 拉取一次服务端快照并与本地待确认消息对账。
func (p *Poller) refresh(ctx context.Context) {
	p.mu.Lock()
	seq := p.fetchSeq + 1
	p.fetchSeq = seq
	p.mu.Unlock()

	snapshot, err := p.source.Messages(ctx, p.token, p.target)
	if err != nil {
		// 拉取失败保留最近一次的有效视图，不清空
		log.Warnf("conversation %s: refresh failed: %v", p.target, err)
		return
	}

	p.applySnapshot(seq, snapshot)
}

// applySnapshot 将一次拉取的结果落地，返回是否被采纳。
// 旧请求的结果在新请求落地后到达时直接丢弃；停止后一律丢弃。
func (p *Poller) applySnapshot(seq uint64, snapshot []model.ChatMessage) bool {
	p.mu.Lock()
	if p.stopped || seq < p.fetchSeq {
		p.mu.Unlock()
		return false
	}
	p.messages = reconcile(snapshot, p.messages)
	updated := p.snapshotLocked()
	p.mu.Unlock()

	p.notify(updated)
	return true
}

// reconcile 合并服务端快照与本地序列。
// 服务端对已确认消息具有权威性；本地待确认消息若其 clientRef 已被快照回显则被
// 服务端记录取代，否则按原有相对顺序保留在快照之后。
func reconcile(snapshot, local []model.ChatMessage) []model.ChatMessage {
	confirmed := make(map[string]struct{}, len(snapshot))
	for _, m := range snapshot {
		if m.ClientRef != "" {
			confirmed[m.ClientRef] = struct{}{}
		}
	}

	merged := make([]model.ChatMessage, len(snapshot), len(snapshot)+4)
	copy(merged, snapshot)
	for _, m := range local {
		if !m.Pending() {
			continue
		}
		if _, ok := confirmed[m.ClientRef]; ok {
			continue
		}
		merged = append(merged, m)
	}
	return merged
}

// Send 乐观发送一条消息：先把占位消息立即追加到本地序列，
// 发送成功后用服务端记录原位替换占位，失败则把占位整条移除。
// 停止后的轮询器拒绝发送，也不再产生任何状态更新或回调。
func (p *Poller) Send(ctx context.Context, text string) (*model.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	clientRef := uuid.NewString()
	placeholder := model.ChatMessage{
		ID:         fmt.Sprintf("%s%d", model.PendingIDPrefix, time.Now().UnixNano()),
		ClientRef:  clientRef,
		SenderRole: p.role,
		Text:       text,
		CreatedAt:  time.Now(),
	}

	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil, ErrStopped
	}
	p.messages = append(p.messages, placeholder)
	updated := p.snapshotLocked()
	p.mu.Unlock()
	p.notify(updated)

	confirmed, err := p.source.SendMessage(ctx, p.token, p.target, text, clientRef)
	if err != nil {
		// 服务端没有接受这条消息，本地不得保留它
		p.mu.Lock()
		if p.stopped {
			p.mu.Unlock()
			return nil, err
		}
		p.messages = removeByID(p.messages, placeholder.ID)
		updated = p.snapshotLocked()
		p.mu.Unlock()
		p.notify(updated)
		return nil, err
	}

	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return confirmed, nil
	}
	// 占位若已被并发刷新对账掉，确认记录此时已经在序列中，替换自然落空
	replaceByID(p.messages, placeholder.ID, *confirmed)
	updated = p.snapshotLocked()
	p.mu.Unlock()
	p.notify(updated)

	return confirmed, nil
}

// Snapshot 返回当前消息序列的副本。
func (p *Poller) Snapshot() []model.ChatMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *Poller) snapshotLocked() []model.ChatMessage {
	out := make([]model.ChatMessage, len(p.messages))
	copy(out, p.messages)
	return out
}

func (p *Poller) notify(messages []model.ChatMessage) {
	if p.onUpdate != nil {
		p.onUpdate(messages)
	}
}

// replaceByID 按 ID 原位替换一条消息，返回是否发生了替换。
func replaceByID(messages []model.ChatMessage, id string, replacement model.ChatMessage) bool {
	for i := range messages {
		if messages[i].ID == id {
			messages[i] = replacement
			return true
		}
	}
	return false
}

// removeByID 按 ID 移除一条消息。
func removeByID(messages []model.ChatMessage, id string) []model.ChatMessage {
	for i := range messages {
		if messages[i].ID == id {
			return append(messages[:i], messages[i+1:]...)
		}
	}
	return messages
}
