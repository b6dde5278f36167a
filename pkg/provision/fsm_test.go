package provision

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableOrder(t *testing.T) {
	assert.Len(t, table, len(Steps))
	for i, step := range Steps {
		assert.Equal(t, step, table[i].step)
		assert.Equal(t, step, State(i).Step())
		assert.NotNil(t, table[i].run, step.String())
	}
}

func TestStepFatal(t *testing.T) {
	assert.False(t, StepFetchConfig.Fatal())
	assert.False(t, StepDisableAuxRadio.Fatal())
	for _, s := range Steps[2:] {
		assert.True(t, s.Fatal(), s.String())
	}
}

func TestNext(t *testing.T) {
	tests := []struct {
		name  string
		cur   State
		res   StepResult
		ready bool
		want  State
	}{
		{"advance on success", StateFetchConfig, Succeeded(), true, StateDisableAuxRadio},
		{"best-effort failure continues", StateFetchConfig, Failed("boom"), true, StateDisableAuxRadio},
		{"aux radio failure continues", StateDisableAuxRadio, Failed("boom"), true, StateSetNetworkJoin},
		{"fatal failure", StateSetNetworkJoin, Failed("boom"), true, StateFailed},
		{"wait ran out", StateSetNetworkJoin, Succeeded(), false, StateFailed},
		{"skip advances", StateCheckAndApplyUpdate, Skipped("none"), true, StateSetDeviceName},
		{"reboot failure", StateReboot, Failed("transport"), true, StateFailed},
		{"reboot unreachable", StateReboot, Succeeded(), false, StateFailed},
		{"last step", StateSetAuthCredentials, Succeeded(), true, StateProvisioned},
		{"last step skipped", StateSetAuthCredentials, Skipped("none"), true, StateProvisioned},
		{"provisioned stays", StateProvisioned, Succeeded(), true, StateProvisioned},
		{"failed stays", StateFailed, Succeeded(), true, StateFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, next(tt.cur, tt.res, tt.ready))
		})
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "SetNetworkJoin", StateSetNetworkJoin.String())
	assert.Equal(t, "PROVISIONED", StateProvisioned.String())
	assert.Equal(t, "FAILED", StateFailed.String())
	assert.True(t, StateFailed.Terminal())
	assert.False(t, StateSetAuthCredentials.Terminal())
}

func TestStepResultString(t *testing.T) {
	assert.Equal(t, "SUCCEEDED", Succeeded().String())
	assert.Equal(t, "FAILED(status 500: boom)", Failed("status 500: boom").String())
	assert.Equal(t, "SKIPPED(no update)", Skipped("no update").String())
}
