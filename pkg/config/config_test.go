package config_test

import (
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/mchmarny/rightkit/pkg/config"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	c := qt.New(t)
	home := t.TempDir()

	cfg, err := config.Load(home)
	c.Assert(err, qt.IsNil)
	c.Assert(cfg, qt.DeepEquals, config.Default(home))
	c.Assert(cfg.Namespace, qt.Equals, config.DefaultNamespace)
	c.Assert(cfg.TemplatesDir, qt.Equals, filepath.Join(home, "templates"))
	c.Assert(cfg.Port, qt.Equals, 9876)
}

func TestLoad_Overlay(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		name      string
		yaml      string
		wantNS    string
		wantPort  int
		wantPaste string
	}{
		{
			name:      "port only",
			yaml:      "port: 7000\n",
			wantNS:    config.DefaultNamespace,
			wantPort:  7000,
			wantPaste: "Paste Here",
		},
		{
			name:      "namespace and labels",
			yaml:      "namespace: group.test\npaste_label: Paste\n",
			wantNS:    "group.test",
			wantPort:  9876,
			wantPaste: "Paste",
		},
		{
			name:      "empty values keep defaults",
			yaml:      "namespace: \"\"\nport: 0\n",
			wantNS:    config.DefaultNamespace,
			wantPort:  9876,
			wantPaste: "Paste Here",
		},
	}

	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			home := t.TempDir()
			err := os.WriteFile(filepath.Join(home, config.FileName), []byte(tt.yaml), 0o600)
			c.Assert(err, qt.IsNil)

			cfg, err := config.Load(home)
			c.Assert(err, qt.IsNil)
			c.Assert(cfg.Namespace, qt.Equals, tt.wantNS)
			c.Assert(cfg.Port, qt.Equals, tt.wantPort)
			c.Assert(cfg.PasteLabel, qt.Equals, tt.wantPaste)
		})
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	c := qt.New(t)
	home := t.TempDir()
	c.Assert(os.WriteFile(filepath.Join(home, config.FileName), []byte("port: [\n"), 0o600), qt.IsNil)
	_, err := config.Load(home)
	c.Assert(err, qt.IsNotNil)
}

func TestSaveLoad(t *testing.T) {
	c := qt.New(t)
	home := t.TempDir()
	cfg := config.Default(home)
	cfg.Port = 1234
	cfg.TemplatesDir = filepath.Join(home, "tpl")
	c.Assert(config.Save(home, cfg), qt.IsNil)

	got, err := config.Load(home)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, cfg)
}

func TestResolveHome(t *testing.T) {
	c := qt.New(t)
	dir := t.TempDir()

	c.Setenv(config.EnvVarHome, "")
	p, src := config.ResolveHome(dir)
	c.Assert(p, qt.Equals, dir)
	c.Assert(src, qt.Equals, "flag")

	c.Setenv(config.EnvVarHome, dir)
	p, src = config.ResolveHome("")
	c.Assert(p, qt.Equals, dir)
	c.Assert(src, qt.Equals, "env")

	c.Setenv(config.EnvVarHome, "")
	_, src = config.ResolveHome("")
	c.Assert(src, qt.Equals, "default")
}
