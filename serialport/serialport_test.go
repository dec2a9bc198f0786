package serialport

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_serialConfig(t *testing.T) {
	sc, err := Config{Name: "/dev/ttyACM0"}.serialConfig()
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyACM0", sc.Name)
	assert.Equal(t, DefaultBaud, sc.Baud)
	assert.Equal(t, DefaultReadTimeout, sc.ReadTimeout)

	sc, err = Config{Name: "COM3", Baud: 115200, ReadTimeout: -1}.serialConfig()
	require.NoError(t, err)
	assert.Equal(t, 115200, sc.Baud)
	assert.Equal(t, time.Duration(0), sc.ReadTimeout)

	_, err = Config{}.serialConfig()
	assert.Error(t, err)

	_, err = Config{Name: "x", Baud: -1}.serialConfig()
	assert.Error(t, err)
}

func TestOpen_Missing(t *testing.T) {
	name := filepath.Join(t.TempDir(), "ttyNOPE")
	_, err := Open(Config{Name: name})
	require.Error(t, err)
	assert.Contains(t, err.Error(), name)
}

func TestOpen_IdleTimeout(t *testing.T) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skip("no pty available:", err)
	}
	defer ptmx.Close()
	defer tty.Close()

	p, err := Open(Config{Name: tty.Name(), ReadTimeout: 50 * time.Millisecond})
	require.NoError(t, err)
	defer p.Close()

	buf := make([]byte, 16)
	start := time.Now()
	n, err := p.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.True(t, time.Since(start) < 2*time.Second)

	_, err = ptmx.Write([]byte{0x02, 0xff})
	require.NoError(t, err)
	var got []byte
	deadline := time.Now().Add(2 * time.Second)
	for len(got) < 2 && time.Now().Before(deadline) {
		n, err = p.Read(buf)
		require.NoError(t, err)
		got = append(got, buf[:n]...)
	}
	assert.Equal(t, []byte{0x02, 0xff}, got)
}
