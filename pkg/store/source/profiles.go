// Package source resolves named data-source profiles and opens the database
// records are read from.
package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

const DefaultConfigFile = ".insightscfg"

var ErrUnknownProfile = errors.New("unknown profile")

// Profile is one section of the profiles file:
//
//	[finance]
//	driver = postgres
//	dsn    = postgres://reader@db/finance?sslmode=disable
//	table  = public.documents
type Profile struct {
	Name   string `ini:"-"`
	Driver string `ini:"driver"`
	DSN    string `ini:"dsn"`
	Path   string `ini:"path"`
	Table  string `ini:"table"`

	// databricks
	Host     string `ini:"host"`
	Token    string `ini:"token"`
	HTTPPath string `ini:"http_path"`

	// snowflake
	Account   string `ini:"account"`
	User      string `ini:"user"`
	Password  string `ini:"password"`
	Database  string `ini:"database"`
	Schema    string `ini:"schema"`
	Warehouse string `ini:"warehouse"`
	Role      string `ini:"role"`
}

type ProfileRegistry interface {
	Profiles() []string
	Profile(name string) (Profile, error)
}

type iniRegistry struct {
	cfg *ini.File
}

// DefaultConfigPath returns ~/.insightscfg.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, DefaultConfigFile), nil
}

func NewProfileRegistry(path string) (ProfileRegistry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load profiles %s: %w", path, err)
	}
	return &iniRegistry{cfg: cfg}, nil
}

func (r *iniRegistry) Profiles() []string {
	var profiles []string
	for _, section := range r.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles
}

func (r *iniRegistry) Profile(name string) (Profile, error) {
	section, err := r.cfg.GetSection(name)
	if err != nil || len(section.Keys()) == 0 {
		return Profile{}, fmt.Errorf("%w: %s", ErrUnknownProfile, name)
	}

	var p Profile
	if err := section.MapTo(&p); err != nil {
		return Profile{}, fmt.Errorf("parse profile %s: %w", name, err)
	}
	p.Name = name
	p.Driver = strings.ToLower(strings.TrimSpace(p.Driver))
	if p.Driver == "" {
		return Profile{}, fmt.Errorf("profile %s: driver is required", name)
	}
	return p, nil
}
