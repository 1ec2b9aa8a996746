package config

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := NewAppConfig()

	require.Equal(t, ":8080", c.ApiAddr())
	require.Equal(t, "db.sqlite", c.DB())
	require.Equal(t, "members.yml", c.MembersFile())
	require.NotEmpty(t, c.RecruitmentURL())
}

func TestLoadFile(t *testing.T) {
	f, err := os.CreateTemp("", "portal_test")
	require.NoError(t, err)

	fmt.Fprint(f, "---\napi_addr: \":9999\"\ntoken_key: \"secret\"\n")
	f.Close()

	c := NewAppConfig()
	require.True(t, c.Load(f.Name()))

	require.Equal(t, ":9999", c.ApiAddr())
	require.Equal(t, "secret", c.TokenKey())
	require.Equal(t, "db.sqlite", c.DB())
}

func TestLoadMissingFile(t *testing.T) {
	c := NewAppConfig()

	require.False(t, c.Load("no_such_file.yml"))
	require.Equal(t, ":8080", c.ApiAddr())
}
