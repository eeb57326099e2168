package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netmidi/netmidi-go/internal/config"
	"github.com/netmidi/netmidi-go/internal/logging"
	"github.com/netmidi/netmidi-go/pkg/discovery"
)

func TestRenderSessions(t *testing.T) {
	out := renderSessions([]*discovery.Session{{
		Instance:  "netmidi-stage",
		Name:      "stage",
		Group:     "225.0.0.37",
		Port:      21928,
		Host:      "stage.local.",
		Addresses: []string{"192.168.1.20", "fe80::1"},
	}})
	assert.Contains(t, out, "netmidi-stage")
	assert.Contains(t, out, "21928")
	assert.Contains(t, out, "192.168.1.20, fe80::1")
}

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCommand()
	for _, name := range []string{"run", "send", "console", "browse"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestSendRejectsBadMessageBeforeJoining(t *testing.T) {
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"send", "note-on", "0", "60", "100"})
	assert.Error(t, root.Execute())
}

func TestEnsureConfigAppliesOverrides(t *testing.T) {
	ctx := &commandContext{group: "239.9.9.9", port: 40000, logLevel: "debug"}
	cfg, err := ctx.ensureConfig()
	require.NoError(t, err)
	assert.Equal(t, "239.9.9.9", cfg.Transport.Group)
	assert.Equal(t, 40000, cfg.Transport.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)

	bad := &commandContext{group: "10.0.0.1"}
	_, err = bad.ensureConfig()
	assert.Error(t, err)
}

func TestNewNodeComposition(t *testing.T) {
	cfg := config.Default()
	cfg.Feed.Enabled = true
	cfg.Feed.Listen = "127.0.0.1:0"
	cfg.Recovery.Enabled = true

	n, err := newNode(&cfg, logging.Nop(), nodeOptions{monitor: true, feed: true, supervisor: true})
	require.NoError(t, err)

	assert.NotNil(t, n.monitor)
	assert.NotNil(t, n.feed)
	assert.NotNil(t, n.supervisor)
	assert.Nil(t, n.advertiser)
	assert.Len(t, n.Children(), 3)

	minimal, err := newNode(&cfg, logging.Nop(), nodeOptions{})
	require.NoError(t, err)
	assert.Len(t, minimal.Children(), 1)
	assert.Nil(t, minimal.supervisor)
}
