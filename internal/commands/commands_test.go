package commands

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"taskchat/internal/apierr"
	"taskchat/internal/config"
	"taskchat/internal/exitcode"
	"taskchat/internal/history"
	"taskchat/internal/testutil"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Dir:     t.TempDir(),
		BaseURL: config.DefaultBaseURL,
	}
}

func runCommand(t *testing.T, cmd Command, cfg *config.Config, svc *testutil.FakeService, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := cmd.Run(context.Background(), cfg, svc, args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestSignupCreatesSession(t *testing.T) {
	cfg := testConfig(t)
	svc := testutil.NewFakeService()

	cmd := &SignupCmd{}
	cmd.SetCredentials("a@x.com", "pw1")
	code, out, errOut := runCommand(t, cmd, cfg, svc)
	if code != exitcode.Success {
		t.Fatalf("exit = %d, stderr = %q", code, errOut)
	}
	if !strings.Contains(out, "a@x.com") {
		t.Errorf("stdout = %q", out)
	}
	if !cfg.HasSession() {
		t.Error("signup should auto sign in and persist the session")
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	cfg := testConfig(t)
	svc := testutil.NewFakeService()

	first := &SignupCmd{}
	first.SetCredentials("a@x.com", "pw1")
	runCommand(t, first, cfg, svc)

	second := &SignupCmd{}
	second.SetCredentials("a@x.com", "pw2")
	code, _, errOut := runCommand(t, second, cfg, svc)
	if code != exitcode.UserError {
		t.Errorf("exit = %d, want %d", code, exitcode.UserError)
	}
	// The server's own wording reaches the user.
	if !strings.Contains(errOut, "Email already exists") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestSignupRequiresCredentials(t *testing.T) {
	code, _, errOut := runCommand(t, &SignupCmd{}, testConfig(t), testutil.NewFakeService())
	if code != exitcode.UserError {
		t.Errorf("exit = %d, want %d", code, exitcode.UserError)
	}
	if !strings.Contains(errOut, "--email and --password are required") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestLoginLogoutWhoami(t *testing.T) {
	cfg := testConfig(t)
	svc := testutil.NewFakeService()
	if _, err := svc.SignUp(context.Background(), "a@x.com", "pw1"); err != nil {
		t.Fatal(err)
	}

	login := &LoginCmd{}
	login.SetCredentials("a@x.com", "pw1")
	code, _, errOut := runCommand(t, login, cfg, svc)
	if code != exitcode.Success {
		t.Fatalf("login exit = %d, stderr = %q", code, errOut)
	}
	if !cfg.HasSession() {
		t.Fatal("login should persist the session")
	}

	code, out, _ := runCommand(t, &WhoamiCmd{}, cfg, svc)
	if code != exitcode.Success {
		t.Fatalf("whoami exit = %d", code)
	}
	if !strings.Contains(out, "a@x.com") {
		t.Errorf("whoami stdout = %q", out)
	}

	code, out, _ = runCommand(t, &LogoutCmd{}, cfg, svc)
	if code != exitcode.Success {
		t.Fatalf("logout exit = %d", code)
	}
	if !strings.Contains(out, "signed out") {
		t.Errorf("logout stdout = %q", out)
	}
	if cfg.HasSession() {
		t.Error("logout should remove the session file")
	}

	// Logging out again is benign.
	code, out, _ = runCommand(t, &LogoutCmd{}, cfg, svc)
	if code != exitcode.Success {
		t.Errorf("second logout exit = %d", code)
	}
	if !strings.Contains(out, "not signed in") {
		t.Errorf("second logout stdout = %q", out)
	}
}

func TestLoginBadPassword(t *testing.T) {
	cfg := testConfig(t)
	svc := testutil.NewFakeService()
	if _, err := svc.SignUp(context.Background(), "a@x.com", "pw1"); err != nil {
		t.Fatal(err)
	}

	login := &LoginCmd{}
	login.SetCredentials("a@x.com", "wrong")
	code, _, _ := runCommand(t, login, cfg, svc)
	if code != exitcode.AuthError {
		t.Errorf("exit = %d, want %d", code, exitcode.AuthError)
	}
	if cfg.HasSession() {
		t.Error("failed login must not persist a session")
	}
}

func TestAddAndList(t *testing.T) {
	cfg := testConfig(t)
	svc := testutil.NewFakeService()

	code, out, errOut := runCommand(t, &AddCmd{}, cfg, svc, "Buy", "milk")
	if code != exitcode.Success {
		t.Fatalf("add exit = %d, stderr = %q", code, errOut)
	}
	if !strings.Contains(out, "created task-1") {
		t.Errorf("add stdout = %q", out)
	}

	code, out, _ = runCommand(t, &ListCmd{}, cfg, svc)
	if code != exitcode.Success {
		t.Fatalf("list exit = %d", code)
	}
	// Multi-word titles are joined with single spaces.
	if !strings.Contains(out, "Buy milk") {
		t.Errorf("list stdout = %q", out)
	}
}

func TestAddRequiresTitle(t *testing.T) {
	code, _, errOut := runCommand(t, &AddCmd{}, testConfig(t), testutil.NewFakeService())
	if code != exitcode.UserError {
		t.Errorf("exit = %d, want %d", code, exitcode.UserError)
	}
	if !strings.Contains(errOut, "title required") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestListHidesCompletedByDefault(t *testing.T) {
	cfg := testConfig(t)
	svc := testutil.NewFakeService()
	svc.AddTask("t1", "open task", false)
	svc.AddTask("t2", "done task", true)

	_, out, _ := runCommand(t, &ListCmd{}, cfg, svc)
	if strings.Contains(out, "done task") {
		t.Errorf("completed task shown without --all: %q", out)
	}

	all := &ListCmd{}
	all.SetAll(true)
	_, out, _ = runCommand(t, all, cfg, svc)
	if !strings.Contains(out, "done task") {
		t.Errorf("completed task hidden with --all: %q", out)
	}
}

func TestDoneByNumberAndByID(t *testing.T) {
	cfg := testConfig(t)
	svc := testutil.NewFakeService()
	svc.AddTask("t1", "Buy milk", false)
	svc.AddTask("t2", "Walk dog", false)

	code, out, errOut := runCommand(t, &DoneCmd{}, cfg, svc, "1")
	if code != exitcode.Success {
		t.Fatalf("exit = %d, stderr = %q", code, errOut)
	}
	if !strings.Contains(out, "done: Buy milk") {
		t.Errorf("stdout = %q", out)
	}
	if !svc.Tasks()[0].Completed {
		t.Error("first task should be completed on the server")
	}

	code, out, _ = runCommand(t, &DoneCmd{}, cfg, svc, "t2")
	if code != exitcode.Success {
		t.Fatalf("exit = %d", code)
	}
	if !strings.Contains(out, "done: Walk dog") {
		t.Errorf("stdout = %q", out)
	}

	// Toggling again reopens.
	code, out, _ = runCommand(t, &DoneCmd{}, cfg, svc, "t2")
	if code != exitcode.Success {
		t.Fatalf("exit = %d", code)
	}
	if !strings.Contains(out, "open: Walk dog") {
		t.Errorf("stdout = %q", out)
	}
}

func TestDoneUnknownReference(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("t1", "Buy milk", false)

	code, _, errOut := runCommand(t, &DoneCmd{}, testConfig(t), svc, "9")
	if code != exitcode.UserError {
		t.Errorf("exit = %d, want %d", code, exitcode.UserError)
	}
	if !strings.Contains(errOut, "task not found") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestEdit(t *testing.T) {
	cfg := testConfig(t)
	svc := testutil.NewFakeService()
	svc.AddTask("t1", "Buy milk", false)

	cmd := &EditCmd{}
	cmd.SetTitle("Buy oat milk")
	code, _, errOut := runCommand(t, cmd, cfg, svc, "t1")
	if code != exitcode.Success {
		t.Fatalf("exit = %d, stderr = %q", code, errOut)
	}
	if got := svc.Tasks()[0].Title; got != "Buy oat milk" {
		t.Errorf("title = %q", got)
	}
}

func TestEditRequiresAChange(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("t1", "Buy milk", false)

	code, _, errOut := runCommand(t, &EditCmd{}, testConfig(t), svc, "t1")
	if code != exitcode.UserError {
		t.Errorf("exit = %d, want %d", code, exitcode.UserError)
	}
	if !strings.Contains(errOut, "nothing to change") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestRm(t *testing.T) {
	cfg := testConfig(t)
	svc := testutil.NewFakeService()
	svc.AddTask("t1", "Buy milk", false)

	code, out, errOut := runCommand(t, &RmCmd{}, cfg, svc, "1")
	if code != exitcode.Success {
		t.Fatalf("exit = %d, stderr = %q", code, errOut)
	}
	if !strings.Contains(out, "deleted t1") {
		t.Errorf("stdout = %q", out)
	}
	if len(svc.Tasks()) != 0 {
		t.Error("task should be deleted on the server")
	}
}

func TestRmAlreadyGoneIsBenign(t *testing.T) {
	cfg := testConfig(t)
	svc := testutil.NewFakeService()
	svc.AddTask("t1", "Buy milk", false)
	svc.DeleteTaskErr = apierr.NewNotFound("task")

	code, out, _ := runCommand(t, &RmCmd{}, cfg, svc, "t1")
	if code != exitcode.Success {
		t.Errorf("exit = %d, want success on a repeated delete", code)
	}
	if !strings.Contains(out, "deleted t1") {
		t.Errorf("stdout = %q", out)
	}
}

func TestChatREPL(t *testing.T) {
	cfg := testConfig(t)
	svc := testutil.NewFakeService()
	svc.ConvID = 3

	cmd := &ChatCmd{}
	cmd.SetInput(strings.NewReader("add a task to buy milk\n/quit\n"))
	code, out, errOut := runCommand(t, cmd, cfg, svc)
	if code != exitcode.Success {
		t.Fatalf("exit = %d, stderr = %q", code, errOut)
	}
	if !strings.Contains(out, "assistant: ok: add a task to buy milk") {
		t.Errorf("stdout = %q", out)
	}
	if got := svc.SentConversationIDs; len(got) != 1 || got[0] != 0 {
		t.Errorf("SentConversationIDs = %v", got)
	}

	// The turn was journaled locally.
	hist, err := history.Open(cfg.HistoryPath())
	if err != nil {
		t.Fatal(err)
	}
	defer hist.Close()
	convs, err := hist.Conversations()
	if err != nil {
		t.Fatal(err)
	}
	if len(convs) != 1 || convs[0].Turns != 1 || convs[0].RemoteID != 3 {
		t.Errorf("journal = %+v", convs)
	}
}

func TestChatSlashTasks(t *testing.T) {
	cfg := testConfig(t)
	svc := testutil.NewFakeService()
	svc.AddTask("t1", "Buy milk", false)

	cmd := &ChatCmd{}
	cmd.SetInput(strings.NewReader("/tasks\n/quit\n"))
	code, out, _ := runCommand(t, cmd, cfg, svc)
	if code != exitcode.Success {
		t.Fatalf("exit = %d", code)
	}
	if !strings.Contains(out, "Buy milk") {
		t.Errorf("stdout = %q", out)
	}
	if len(svc.SentConversationIDs) != 0 {
		t.Error("/tasks must not send a chat turn")
	}
}

func TestChatResumeCarriesConversationID(t *testing.T) {
	cfg := testConfig(t)
	svc := testutil.NewFakeService()

	cmd := &ChatCmd{}
	cmd.SetResume(13)
	cmd.SetInput(strings.NewReader("hello again\n/quit\n"))
	code, _, errOut := runCommand(t, cmd, cfg, svc)
	if code != exitcode.Success {
		t.Fatalf("exit = %d, stderr = %q", code, errOut)
	}
	if got := svc.SentConversationIDs; len(got) != 1 || got[0] != 13 {
		t.Errorf("SentConversationIDs = %v", got)
	}
}

func TestChatSessionExpired(t *testing.T) {
	cfg := testConfig(t)
	svc := testutil.NewFakeService()
	svc.SendChatErr = apierr.NewSessionExpired()

	cmd := &ChatCmd{}
	cmd.SetInput(strings.NewReader("hello\n"))
	code, _, errOut := runCommand(t, cmd, cfg, svc)
	if code != exitcode.AuthError {
		t.Errorf("exit = %d, want %d", code, exitcode.AuthError)
	}
	if !strings.Contains(errOut, "session expired") {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestChatFallbackKeepsREPLAlive(t *testing.T) {
	cfg := testConfig(t)
	svc := testutil.NewFakeService()
	svc.SendChatErr = apierr.NewUnreachable()

	cmd := &ChatCmd{}
	cmd.SetInput(strings.NewReader("hello\n/quit\n"))
	code, out, _ := runCommand(t, cmd, cfg, svc)
	if code != exitcode.Success {
		t.Errorf("exit = %d, want success", code)
	}
	if !strings.Contains(out, "Sorry, I encountered an error") {
		t.Errorf("stdout = %q", out)
	}
}

func TestHistoryAndExport(t *testing.T) {
	cfg := testConfig(t)
	svc := testutil.NewFakeService()
	svc.ConvID = 9

	chatCmd := &ChatCmd{}
	chatCmd.SetInput(strings.NewReader("remember the milk\n/quit\n"))
	if code, _, errOut := runCommand(t, chatCmd, cfg, svc); code != exitcode.Success {
		t.Fatalf("chat exit = %d, stderr = %q", code, errOut)
	}

	code, out, _ := runCommand(t, &HistoryCmd{}, cfg, svc)
	if code != exitcode.Success {
		t.Fatalf("history exit = %d", code)
	}
	if !strings.Contains(out, "remote=9") || !strings.Contains(out, "1 turns") {
		t.Errorf("history stdout = %q", out)
	}

	exp := &ExportCmd{}
	exp.SetFormat("md")
	code, out, errOut := runCommand(t, exp, cfg, svc, "1")
	if code != exitcode.Success {
		t.Fatalf("export exit = %d, stderr = %q", code, errOut)
	}
	if !strings.Contains(out, "remember the milk") {
		t.Errorf("export stdout = %q", out)
	}
}

func TestExportUnknownConversation(t *testing.T) {
	cfg := testConfig(t)

	exp := &ExportCmd{}
	exp.SetFormat("json")
	code, _, errOut := runCommand(t, exp, cfg, testutil.NewFakeService(), "42")
	if code != exitcode.UserError {
		t.Errorf("exit = %d, want %d", code, exitcode.UserError)
	}
	if errOut == "" {
		t.Error("expected an error on stderr")
	}
}

func TestHistoryEmpty(t *testing.T) {
	code, out, _ := runCommand(t, &HistoryCmd{}, testConfig(t), testutil.NewFakeService())
	if code != exitcode.Success {
		t.Fatalf("exit = %d", code)
	}
	if !strings.Contains(out, "no conversations") {
		t.Errorf("stdout = %q", out)
	}
}

func TestQuietSuppressesConfirmations(t *testing.T) {
	cfg := testConfig(t)
	cfg.Quiet = true
	svc := testutil.NewFakeService()

	code, out, _ := runCommand(t, &AddCmd{}, cfg, svc, "Buy", "milk")
	if code != exitcode.Success {
		t.Fatalf("exit = %d", code)
	}
	if out != "" {
		t.Errorf("quiet add stdout = %q", out)
	}
}

func TestHelpListsCommands(t *testing.T) {
	var out bytes.Buffer
	code := (&HelpCmd{}).Run(context.Background(), testConfig(t), nil, nil, &out, os.Stderr)
	if code != exitcode.Success {
		t.Fatalf("exit = %d", code)
	}
	for _, name := range []string{"list", "add", "chat", "history", "export", "login"} {
		if !strings.Contains(out.String(), name) {
			t.Errorf("help output missing %q", name)
		}
	}
}
