// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBestUTM = `#BESTUTMA,COM3,0,25.5,FINESTEERING,1638,515217.200,00000000,eb16,6302;SOL_COMPUTED,OMNISTAR_HP,17,T,4727502.1668,320079.3993,284.4611,-35.0000,WGS84,0.0984,0.4398,0.1960,"1001",4.000,0.000,15,8,8,8,0,00,0,03*11855669`

func TestRun_ReplaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "novatel.log")
	require.NoError(t, os.WriteFile(path, []byte(sampleBestUTM+"\r\n"+sampleBestUTM+"\r\n"), 0o644))

	assert.NoError(t, run(path, false, "base_link"))
}

func TestRun_MissingFile(t *testing.T) {
	err := run(filepath.Join(t.TempDir(), "missing.log"), false, "base_link")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
