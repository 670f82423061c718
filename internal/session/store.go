// Package session 实现了客户端的会话凭证存储与会话守卫。
package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"arch-market-go/internal/model"
)

// Store 是显式注入的会话状态对象。
// 它取代了散落各处的环境态读写：失效与清除都通过它完成，便于测试与替换。
type Store interface {
	// Get 返回当前存储的会话状态；从未登录时 Credential 为空
	Get() (State, error)
	// Set 原子地写入一份完整的会话状态（最后写入者获胜）
	Set(state State) error
	// Clear 清空全部会话状态。重复调用是幂等的
	Clear() error
}

// State 是持久化的会话状态。
// 字段与原前端 localStorage 中的键一一对应。
type State struct {
	Token        string          `json:"token"`
	RefreshToken string          `json:"refreshToken"`
	Role         string          `json:"role"`
	Email        string          `json:"email"`
	FullName     string          `json:"fullName"`
	User         *model.Identity `json:"user,omitempty"`
}

// Empty 判断会话状态是否为空（未登录或已清除）。
func (s State) Empty() bool {
	return s.Token == ""
}

const stateFileName = "session.json"

// fileStore 把会话状态持久化为状态目录下的单个 JSON 文件。
type fileStore struct {
	path string
}

// NewFileStore 创建一个以文件为介质的会话存储。
// dir 为空时使用 ~/.archmarket。
func NewFileStore(dir string) (Store, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".archmarket")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &fileStore{path: filepath.Join(dir, stateFileName)}, nil
}

func (f *fileStore) Get() (State, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return State{}, nil
		}
		return State{}, err
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		// 文件损坏视同未登录，下一次写入会覆盖它
		return State{}, nil
	}
	return state, nil
}

func (f *fileStore) Set(state State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0o600)
}

func (f *fileStore) Clear() error {
	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// memoryStore 是进程内的会话存储，测试与一次性命令使用。
type memoryStore struct {
	state State
}

// NewMemoryStore 创建一个仅驻留内存的会话存储。
func NewMemoryStore() Store {
	return &memoryStore{}
}

func (m *memoryStore) Get() (State, error) {
	return m.state, nil
}

func (m *memoryStore) Set(state State) error {
	m.state = state
	return nil
}

func (m *memoryStore) Clear() error {
	m.state = State{}
	return nil
}
