package service

import (
	"context"
	"testing"
	"time"

	"arch-market-go/internal/model"
	"arch-market-go/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeProjectRepository 只实现会话权限校验需要的 FindByID。
type fakeProjectRepository struct {
	projects map[uint]*model.Project
}

func (f *fakeProjectRepository) FindByID(id uint) (*model.Project, error) {
	project, ok := f.projects[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return project, nil
}

func (f *fakeProjectRepository) Create(*model.Project) error { return nil }
func (f *fakeProjectRepository) FindByClient(uint) ([]model.Project, error) {
	return nil, nil
}
func (f *fakeProjectRepository) FindByArchitect(uint) ([]model.Project, error) {
	return nil, nil
}
func (f *fakeProjectRepository) FindAll() ([]model.Project, error) { return nil, nil }
func (f *fakeProjectRepository) Update(*model.Project) error       { return nil }
func (f *fakeProjectRepository) CountByStatus(string) (int64, error) {
	return 0, nil
}

func newTestChatService(t *testing.T) ChatService {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	messageRepo := repository.NewMessageRepository(client, 200, time.Hour)
	projectRepo := &fakeProjectRepository{projects: map[uint]*model.Project{
		10: {ClientID: 1, ArchitectID: 2},
	}}
	return NewChatService(messageRepo, projectRepo)
}

var (
	clientUser    = &model.User{ID: 1, FullName: "Lin", Role: model.RoleClient}
	architectUser = &model.User{ID: 2, FullName: "Wang", Role: model.RoleArchitect}
	adminUser     = &model.User{ID: 3, FullName: "Zhao", Role: model.RoleAdmin}
	strangerUser  = &model.User{ID: 4, FullName: "Qian", Role: model.RoleClient}
)

func TestProjectChatParticipantsCanExchangeMessages(t *testing.T) {
	svc := newTestChatService(t)
	ctx := context.Background()

	sent, err := svc.SendProjectMessage(ctx, clientUser, 10, "图纸看过了吗？", "ref-1")
	require.NoError(t, err)
	assert.NotEmpty(t, sent.ID)
	assert.Equal(t, "ref-1", sent.ClientRef)
	assert.Equal(t, clientUser.ID, sent.SenderID)
	assert.Equal(t, "client", sent.SenderRole)

	messages, err := svc.ProjectMessages(ctx, architectUser, 10)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, sent.ID, messages[0].ID)
	assert.Equal(t, "图纸看过了吗？", messages[0].Text)
}

func TestProjectChatRejectsNonParticipant(t *testing.T) {
	svc := newTestChatService(t)
	ctx := context.Background()

	_, err := svc.ProjectMessages(ctx, strangerUser, 10)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.SendProjectMessage(ctx, strangerUser, 10, "让我看看", "")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestProjectChatAllowsAdmin(t *testing.T) {
	svc := newTestChatService(t)

	_, err := svc.ProjectMessages(context.Background(), adminUser, 10)
	assert.NoError(t, err)
}

func TestProjectChatUnknownProject(t *testing.T) {
	svc := newTestChatService(t)

	_, err := svc.ProjectMessages(context.Background(), clientUser, 999)
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestSendRejectsBlankText(t *testing.T) {
	svc := newTestChatService(t)

	_, err := svc.SendProjectMessage(context.Background(), clientUser, 10, "   ", "")
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestLobbyChatOwnRoleOnly(t *testing.T) {
	svc := newTestChatService(t)
	ctx := context.Background()

	_, err := svc.SendLobbyMessage(ctx, clientUser, "client-lobby", "有人在吗", "")
	require.NoError(t, err)

	messages, err := svc.LobbyMessages(ctx, clientUser, "client-lobby")
	require.NoError(t, err)
	assert.Len(t, messages, 1)

	// 其他角色的大厅不可访问
	_, err = svc.LobbyMessages(ctx, clientUser, "architect-lobby")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestLobbyChatAdminCanEnterAnyLobby(t *testing.T) {
	svc := newTestChatService(t)
	ctx := context.Background()

	for _, lobbyID := range []string{"client-lobby", "architect-lobby", "admin-lobby"} {
		_, err := svc.LobbyMessages(ctx, adminUser, lobbyID)
		assert.NoError(t, err, lobbyID)
	}
}

func TestLobbyChatUnknownLobby(t *testing.T) {
	svc := newTestChatService(t)

	_, err := svc.LobbyMessages(context.Background(), clientUser, "vip-lobby")
	assert.ErrorIs(t, err, ErrUnknownLobby)
}
