package platform_test

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notekeeper/internal/notesrv"
	"github.com/aretw0/notekeeper/internal/platform"
	"github.com/aretw0/notekeeper/pkg/adapters/httpapi"
	"github.com/aretw0/notekeeper/pkg/core"
	"github.com/aretw0/notekeeper/pkg/session"
)

func TestNew_AgainstServer(t *testing.T) {
	srv := notesrv.New()
	srv.Seed(core.Note{ID: "1", Title: "seeded", Content: "c", CreatedAt: time.Now(), UpdatedAt: time.Now()})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	var fb session.Feedback
	ctrl, err := platform.New(ts.URL,
		platform.WithHTTPClient(ts.Client()),
		platform.WithFeedbackSink(&fb),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, ctrl.Start(ctx))
	defer ctrl.Stop(context.Background())

	require.NoError(t, ctrl.StartCreate(ctx))
	require.NoError(t, ctrl.EditDraft(ctx, session.FieldTitle, "new"))
	require.NoError(t, ctrl.EditDraft(ctx, session.FieldContent, "body"))
	require.NoError(t, ctrl.Submit(ctx))
	require.NoError(t, ctrl.Settle(ctx))

	snap := ctrl.Snapshot()
	require.Len(t, snap.Notes, 2)
	assert.Equal(t, "new", snap.Notes[0].Title, "most recently updated first")
	assert.Equal(t, session.MsgCreated, snap.Feedback.Info)
	assert.Equal(t, session.MsgCreated, fb.Info)

	state := ctrl.State().(session.ControllerState)
	assert.Equal(t, "http-gateway", state.GatewayType)
}

func TestInit_ConfigFile(t *testing.T) {
	t.Setenv(platform.EnvAPIBase, "")
	path := filepath.Join(t.TempDir(), "noted.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_base: http://file.test:1234/\ntimeout: 3s\n"), 0o644))

	gw, err := platform.Init("", platform.WithConfigFile(path))
	require.NoError(t, err)

	state := gw.(*httpapi.Gateway).State().(httpapi.GatewayState)
	assert.Equal(t, "http://file.test:1234", state.BaseURL)
	assert.Equal(t, "3s", state.Timeout)

	gw, err = platform.Init("http://flag.test", platform.WithConfigFile(path), platform.WithTimeout(time.Second))
	require.NoError(t, err)
	state = gw.(*httpapi.Gateway).State().(httpapi.GatewayState)
	assert.Equal(t, "http://flag.test", state.BaseURL)
	assert.Equal(t, "1s", state.Timeout)
}

func TestInit_Errors(t *testing.T) {
	_, err := platform.Init("http://x", platform.WithAdapter("grpc"))
	assert.ErrorContains(t, err, "unknown adapter")

	_, err = platform.Init("not a url")
	assert.Error(t, err)

	_, err = platform.Init("", platform.WithConfigFile(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, err)
}

type nopGateway struct{ core.Gateway }

func TestNew_InjectedGateway(t *testing.T) {
	gw := nopGateway{}
	ctrl, err := platform.New("", platform.WithGateway(gw), platform.WithAdapter("ignored"))
	require.NoError(t, err)

	state := ctrl.State().(session.ControllerState)
	assert.Equal(t, "created", state.Status)
	assert.Equal(t, "gateway", state.GatewayType)
}
