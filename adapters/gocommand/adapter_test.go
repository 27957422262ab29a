package gocommand

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-command"
	wxmp "github.com/goliatone/go-wxmp"
	wxmpcommand "github.com/goliatone/go-wxmp/command"
	"github.com/goliatone/go-wxmp/core"
	"github.com/goliatone/go-wxmp/credentials"
	"github.com/goliatone/go-wxmp/devkit"
	wxmpquery "github.com/goliatone/go-wxmp/query"
)

type okMessage struct{}

func (okMessage) Type() string { return "wxmp.command.ok" }

type invalidMessage struct{}

func (invalidMessage) Type() string { return "" }

type failingMessage struct{}

func (failingMessage) Type() string { return "wxmp.command.fail" }

func (failingMessage) Validate() error { return errors.New("invalid payload") }

type dispatchMessage struct {
	ID string
}

func (dispatchMessage) Type() string { return "wxmp.command.test" }

func TestValidateMessageContract(t *testing.T) {
	if err := ValidateMessageContract(okMessage{}); err != nil {
		t.Fatalf("expected valid message, got %v", err)
	}
	if err := ValidateMessageContract(invalidMessage{}); err == nil {
		t.Fatalf("expected empty type to fail contract validation")
	}
	if err := ValidateMessageContract(failingMessage{}); err == nil {
		t.Fatalf("expected Validate() failure to bubble")
	}
}

func TestRegistryAndDispatchWiring(t *testing.T) {
	adapter := NewRegistryAdapter(command.NewRegistry())
	executed := 0
	customResolverCalled := 0

	cmd := command.CommandFunc[dispatchMessage](func(context.Context, dispatchMessage) error {
		executed++
		return nil
	})

	if _, err := RegisterAndSubscribe(adapter, cmd); err != nil {
		t.Fatalf("register and subscribe: %v", err)
	}
	if err := adapter.AddResolver("custom", func(any, command.CommandMeta, *command.Registry) error {
		customResolverCalled++
		return nil
	}); err != nil {
		t.Fatalf("add resolver: %v", err)
	}
	if !adapter.HasResolver("custom") {
		t.Fatalf("expected custom resolver to be registered")
	}
	if err := adapter.Initialize(); err != nil {
		t.Fatalf("initialize registry: %v", err)
	}
	if customResolverCalled == 0 {
		t.Fatalf("expected resolver hook to run during initialization")
	}

	if err := Dispatch(context.Background(), dispatchMessage{ID: "m1"}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if executed != 1 {
		t.Fatalf("expected command execution count=1, got %d", executed)
	}
}

func TestRegisterFacade_DispatchesToClient(t *testing.T) {
	fake := devkit.NewFakeTransport()
	fake.Handler = func(_ context.Context, req core.TransportRequest) (core.TransportResponse, error) {
		script := devkit.JSON(map[string]any{"access_token": "ACCESS", "expires_in": 7200})
		if req.Path == credentials.TicketPath {
			script = devkit.JSON(map[string]any{"errcode": 0, "ticket": "TICKET", "expires_in": 7200})
		}
		return script.Response, script.Err
	}
	client, err := wxmp.New(wxmp.Config{AppID: "wx1", AppSecret: "secret", Token: "token"}, wxmp.WithTransport(fake))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	facade, err := wxmp.NewFacade(client)
	if err != nil {
		t.Fatalf("new facade: %v", err)
	}

	subs, err := RegisterFacade(NewRegistryAdapter(command.NewRegistry()), facade)
	if err != nil {
		t.Fatalf("register facade: %v", err)
	}
	defer subs.Unsubscribe()

	status, err := Query[wxmpquery.CredentialStatusMessage, wxmpquery.CredentialStatus](context.Background(), wxmpquery.CredentialStatusMessage{Kind: credentials.KindAccessToken})
	if err != nil {
		t.Fatalf("query status: %v", err)
	}
	if !status.Expired {
		t.Fatalf("expected empty cache to report expired")
	}

	if err := Dispatch(context.Background(), wxmpcommand.RefreshCredentialMessage{Kind: credentials.KindJSAPITicket}); err != nil {
		t.Fatalf("dispatch refresh: %v", err)
	}
	ticket, err := Query[wxmpquery.CredentialMessage, string](context.Background(), wxmpquery.CredentialMessage{Kind: credentials.KindJSAPITicket})
	if err != nil {
		t.Fatalf("query ticket: %v", err)
	}
	if ticket != "TICKET" {
		t.Fatalf("expected cached ticket, got %q", ticket)
	}
}

func TestRegisterFacade_RequiresFacade(t *testing.T) {
	if _, err := RegisterFacade(NewRegistryAdapter(nil), nil); err == nil {
		t.Fatalf("expected missing facade to fail")
	}
}
