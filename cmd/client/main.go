// Package main 是 CLI 客户端的入口点。
// 它承担原 Web 前端的会话职责：登录落地、会话守卫、轮询聊天。
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"arch-market-go/internal/chat"
	"arch-market-go/internal/config"
	"arch-market-go/internal/model"
	"arch-market-go/internal/session"
	"arch-market-go/pkg/api"
	"arch-market-go/pkg/log"
)

func main() {
	configPath := flag.String("config", "./configs/config.yaml", "配置文件路径")
	cmd := flag.String("cmd", "me", "命令: login|register|me|logout|chat|projects|create-project|consultations|book")
	email := flag.String("email", "", "登录邮箱")
	password := flag.String("password", "", "登录密码")
	fullName := flag.String("name", "", "注册时的姓名")
	role := flag.String("role", "client", "注册角色或守卫期望角色: client|architect")
	projectID := flag.Uint("project", 0, "项目会话的项目 ID（chat 命令）")
	lobby := flag.String("lobby", "", "大厅会话 ID，为空时使用本角色大厅（chat 命令）")
	title := flag.String("title", "", "项目标题（create-project 命令）")
	description := flag.String("desc", "", "项目描述（create-project 命令）")
	architectID := flag.Uint("architect", 0, "建筑师用户 ID（create-project/book 命令）")
	serviceID := flag.Uint("service", 0, "服务项目 ID（book 命令）")
	scheduledAt := flag.String("at", "", "预约时间，格式 2006-01-02 15:04（book 命令）")
	notes := flag.String("notes", "", "预约备注（book 命令）")
	flag.Parse()

	config.Init(*configPath)
	cfg := config.Conf
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync()

	store, err := session.NewFileStore(cfg.Client.StateDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "无法初始化会话存储:", err)
		os.Exit(1)
	}
	client := api.NewClient(cfg.Client.APIBase)

	ctx := context.Background()
	switch *cmd {
	case "login":
		err = runLogin(ctx, client, store, *email, *password)
	case "register":
		err = runRegister(ctx, client, store, *fullName, *email, *password, *role)
	case "me":
		err = runMe(ctx, client, store)
	case "logout":
		err = runLogout(ctx, client, store)
	case "chat":
		err = runChat(ctx, client, store, cfg.Client.PollInterval, *projectID, *lobby)
	case "projects":
		err = runProjects(ctx, client, store)
	case "create-project":
		err = runCreateProject(ctx, client, store, *title, *description, *architectID)
	case "consultations":
		err = runConsultations(ctx, client, store)
	case "book":
		err = runBook(ctx, client, store, *architectID, *serviceID, *scheduledAt, *notes)
	default:
		err = fmt.Errorf("未知命令: %s", *cmd)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// runLogin 登录并把凭证与身份写入会话存储，最后输出角色落地路由。
func runLogin(ctx context.Context, client *api.Client, store session.Store, email, password string) error {
	if email == "" || password == "" {
		return fmt.Errorf("login 需要 --email 和 --password")
	}
	result, err := client.Login(ctx, email, password)
	if err != nil {
		return err
	}

	if err := store.Set(session.State{
		Token:        result.AccessToken,
		RefreshToken: result.RefreshToken,
		Role:         result.User.Role,
		Email:        result.User.Email,
		FullName:     result.User.FullName,
		User:         &result.User,
	}); err != nil {
		return err
	}

	fmt.Printf("Welcome back, %s!\n", result.User.FullName)
	fmt.Println("Landing:", session.LandingRouteFor(result.User.Role))
	return nil
}

// runRegister 注册新用户并直接落地会话。
func runRegister(ctx context.Context, client *api.Client, store session.Store, fullName, email, password, role string) error {
	if fullName == "" || email == "" || password == "" {
		return fmt.Errorf("register 需要 --name、--email 和 --password")
	}
	result, err := client.Register(ctx, fullName, email, password, role)
	if err != nil {
		return err
	}
	if err := store.Set(session.State{
		Token:        result.AccessToken,
		RefreshToken: result.RefreshToken,
		Role:         result.User.Role,
		Email:        result.User.Email,
		FullName:     result.User.FullName,
		User:         &result.User,
	}); err != nil {
		return err
	}
	fmt.Printf("Registered %s (%s)\n", result.User.FullName, result.User.Role)
	return nil
}

// runMe 执行一次无角色约束的守卫判定并输出身份。
func runMe(ctx context.Context, client *api.Client, store session.Store) error {
	guard := session.NewGuard(store, client)
	result, err := guard.Resolve(ctx, "")
	if err != nil {
		return err
	}
	if !result.Authorized() {
		fmt.Println("Redirect:", result.RedirectTo)
		return nil
	}
	fmt.Printf("%s <%s> role=%s\n", result.Identity.FullName, result.Identity.Email, result.Identity.Role)
	return nil
}

// runLogout 通知后端作废 token 并清空本地会话。
// 后端调用失败不阻断本地清除：登出在本地必须总能完成。
func runLogout(ctx context.Context, client *api.Client, store session.Store) error {
	state, err := store.Get()
	if err != nil {
		return err
	}
	if !state.Empty() {
		if err := client.Logout(ctx, state.Token); err != nil {
			log.Warnf("logout: backend call failed: %v", err)
		}
	}
	route, err := session.Logout(store)
	if err != nil {
		return err
	}
	fmt.Println("Redirect:", route)
	return nil
}

// runChat 进入轮询聊天：守卫通过后启动轮询器，stdin 每行发送一条消息。
func runChat(ctx context.Context, client *api.Client, store session.Store, interval time.Duration, projectID uint, lobby string) error {
	guard := session.NewGuard(store, client)
	result, err := guard.Resolve(ctx, "")
	if err != nil {
		return err
	}
	if !result.Authorized() {
		fmt.Println("Redirect:", result.RedirectTo)
		return nil
	}

	role, err := model.ParseRole(result.Identity.Role)
	if err != nil {
		return err
	}

	var target api.ConversationTarget
	switch {
	case projectID != 0:
		target = api.ConversationTarget{ProjectID: projectID}
	case lobby != "":
		target = api.ConversationTarget{LobbyID: lobby}
	default:
		target = api.ConversationTarget{LobbyID: role.LobbyConversationID()}
	}

	poller := chat.NewPoller(client, target, result.Credential, role.Lower(), interval)
	poller.OnUpdate(func(messages []model.ChatMessage) {
		renderMessages(messages, role.Lower())
	})

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		cancel()
	}()

	go poller.Run(runCtx)

	fmt.Printf("Conversation %s — 输入消息后回车发送，Ctrl+C 退出\n", target)
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if _, err := poller.Send(runCtx, text); err != nil {
			fmt.Fprintln(os.Stderr, "发送失败:", err)
		}
		select {
		case <-runCtx.Done():
			return nil
		default:
		}
	}
	return scanner.Err()
}

// renderMessages 以纯文本重绘当前消息序列。
func renderMessages(messages []model.ChatMessage, selfRole string) {
	fmt.Println("----")
	for _, m := range messages {
		marker := " "
		if m.SenderRole == selfRole {
			marker = ">"
		}
		status := ""
		if m.Pending() {
			status = " (sending...)"
		}
		name := m.SenderName
		if name == "" {
			name = m.SenderRole
		}
		fmt.Printf("%s [%s] %s: %s%s\n", marker, m.CreatedAt.Format("15:04:05"), name, m.Text, status)
	}
}

// runProjects 输出当前用户可见的项目列表。
func runProjects(ctx context.Context, client *api.Client, store session.Store) error {
	guard := session.NewGuard(store, client)
	result, err := guard.Resolve(ctx, "")
	if err != nil {
		return err
	}
	if !result.Authorized() {
		fmt.Println("Redirect:", result.RedirectTo)
		return nil
	}

	projects, err := client.Projects(ctx, result.Credential)
	if err != nil {
		return err
	}
	for _, p := range projects {
		fmt.Printf("#%d [%s] %s\n", p.ID, p.Status, p.Title)
	}
	return nil
}

// runCreateProject 由客户创建一个新项目。
func runCreateProject(ctx context.Context, client *api.Client, store session.Store, title, description string, architectID uint) error {
	if title == "" {
		return fmt.Errorf("create-project 需要 --title")
	}
	guard := session.NewGuard(store, client)
	result, err := guard.Resolve(ctx, model.RoleClient)
	if err != nil {
		return err
	}
	if !result.Authorized() {
		fmt.Println("Redirect:", result.RedirectTo)
		return nil
	}

	project, err := client.CreateProject(ctx, result.Credential, title, description, architectID)
	if err != nil {
		return err
	}
	fmt.Printf("Created project #%d [%s] %s\n", project.ID, project.Status, project.Title)
	return nil
}

// runConsultations 按角色输出咨询预约：客户看自己预约的，建筑师看预约到自己名下的。
func runConsultations(ctx context.Context, client *api.Client, store session.Store) error {
	guard := session.NewGuard(store, client)
	result, err := guard.Resolve(ctx, "")
	if err != nil {
		return err
	}
	if !result.Authorized() {
		fmt.Println("Redirect:", result.RedirectTo)
		return nil
	}

	role, err := model.ParseRole(result.Identity.Role)
	if err != nil {
		return err
	}

	var list []model.Consultation
	if role == model.RoleArchitect {
		list, err = client.ArchitectConsultations(ctx, result.Credential, result.Identity.ID)
	} else {
		list, err = client.MyConsultations(ctx, result.Credential)
	}
	if err != nil {
		return err
	}
	for _, c := range list {
		fmt.Printf("#%d %s architect=%d status=%s\n", c.ID, c.ScheduledAt.Format("2006-01-02 15:04"), c.ArchitectID, c.Status)
	}
	return nil
}

// runBook 由客户预约一次建筑师咨询。
func runBook(ctx context.Context, client *api.Client, store session.Store, architectID, serviceID uint, scheduledAt, notes string) error {
	if architectID == 0 || scheduledAt == "" {
		return fmt.Errorf("book 需要 --architect 和 --at")
	}
	at, err := time.ParseInLocation("2006-01-02 15:04", scheduledAt, time.Local)
	if err != nil {
		return fmt.Errorf("无法解析预约时间 %q: %w", scheduledAt, err)
	}

	guard := session.NewGuard(store, client)
	result, err := guard.Resolve(ctx, model.RoleClient)
	if err != nil {
		return err
	}
	if !result.Authorized() {
		fmt.Println("Redirect:", result.RedirectTo)
		return nil
	}

	consultation, err := client.BookConsultation(ctx, result.Credential, architectID, serviceID, at, notes)
	if err != nil {
		return err
	}
	fmt.Printf("Booked consultation #%d at %s\n", consultation.ID, consultation.ScheduledAt.Format("2006-01-02 15:04"))
	return nil
}
