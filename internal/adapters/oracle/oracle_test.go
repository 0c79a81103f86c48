package oracle

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"tdsdesk/internal/core/prompts"
	perr "tdsdesk/internal/platform/errors"

	"github.com/stretchr/testify/require"
)

type scriptModel struct {
	calls   atomic.Int32
	outs    []string
	errs    []error
	block   bool
	prompts []string
	params  []Params
}

func (m *scriptModel) Generate(ctx context.Context, prompt string, p Params) (string, error) {
	i := int(m.calls.Add(1)) - 1
	m.prompts = append(m.prompts, prompt)
	m.params = append(m.params, p)
	if m.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	var out string
	var err error
	if i < len(m.outs) {
		out = m.outs[i]
	}
	if i < len(m.errs) {
		err = m.errs[i]
	}
	return out, err
}

func TestCleanIdentifier(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":                    "N/A",
		"   ":                 "N/A",
		"N/A":                 "N/A",
		"n/a":                 "N/A",
		"N/A.":                "N/A",
		" \"n/a\" ":           "N/A",
		"`FILTRO DE ÓLEO`":    "FILTRO DE ÓLEO",
		"“pastilha de freio”": "pastilha de freio",
		"HQ-2042":             "HQ-2042",
	}
	for in, want := range tests {
		require.Equal(t, want, CleanIdentifier(in, "N/A"), "input %q", in)
	}
}

func TestExtract_RetriesTransientOnce(t *testing.T) {
	t.Parallel()

	m := &scriptModel{
		outs: []string{"", " 'Filtro de óleo' \n"},
		errs: []error{Transient(errors.New("429 RESOURCE_EXHAUSTED")), nil},
	}
	o := New(m, prompts.Default(), Options{})
	got, err := o.ExtractIdentifier(context.Background(), "tem filtro de óleo?")
	require.NoError(t, err)
	require.Equal(t, "Filtro de óleo", got)
	require.EqualValues(t, 2, m.calls.Load())
	require.True(t, strings.Contains(m.prompts[0], "tem filtro de óleo?"))
	require.Less(t, m.params[0].Temperature, float32(0.5))
}

func TestExtract_GivesUpAfterOneRetry(t *testing.T) {
	t.Parallel()

	boom := Transient(errors.New("503"))
	m := &scriptModel{errs: []error{boom, boom, boom}}
	o := New(m, prompts.Default(), Options{})
	_, err := o.ExtractIdentifier(context.Background(), "oi")
	require.True(t, perr.IsCode(err, perr.ErrorCodeUnavailable))
	require.EqualValues(t, 2, m.calls.Load())
}

func TestExtract_PermanentErrorNoRetry(t *testing.T) {
	t.Parallel()

	m := &scriptModel{errs: []error{errors.New("400 bad key")}}
	o := New(m, prompts.Default(), Options{})
	_, err := o.ExtractIdentifier(context.Background(), "oi")
	require.True(t, perr.IsCode(err, perr.ErrorCodeUnavailable))
	require.EqualValues(t, 1, m.calls.Load())
}

func TestGenerate_AttemptTimeoutIsRetried(t *testing.T) {
	t.Parallel()

	m := &scriptModel{block: true}
	o := New(m, prompts.Default(), Options{Timeout: 20 * time.Millisecond})
	start := time.Now()
	_, err := o.ComposeText(context.Background(), "- Nome do Produto: X")
	require.True(t, perr.IsCode(err, perr.ErrorCodeUnavailable))
	require.EqualValues(t, 2, m.calls.Load())
	require.Less(t, time.Since(start), 2*time.Second)
}

func TestGenerate_NoRetryWhenDisabled(t *testing.T) {
	t.Parallel()

	m := &scriptModel{errs: []error{Transient(errors.New("503"))}}
	o := New(m, prompts.Default(), Options{Retries: -1})
	_, err := o.Sentiment(context.Background(), "ótimo")
	require.Error(t, err)
	require.EqualValues(t, 1, m.calls.Load())
}

func TestSentiment_AsksForJSON(t *testing.T) {
	t.Parallel()

	m := &scriptModel{outs: []string{`{"sentimento":"Positivo"}`}}
	o := New(m, prompts.Default(), Options{})
	out, err := o.Sentiment(context.Background(), "ótimo atendimento")
	require.NoError(t, err)
	require.Equal(t, `{"sentimento":"Positivo"}`, out)
	require.True(t, m.params[0].JSON)
}

func TestDisabled(t *testing.T) {
	t.Parallel()

	d := Disabled{Reason: "ORACLE_API_KEY is empty"}
	_, err := d.ExtractIdentifier(context.Background(), "x")
	require.True(t, perr.IsCode(err, perr.ErrorCodeUnavailable))
	require.Contains(t, err.Error(), "ORACLE_API_KEY")
	_, err = d.ComposeText(context.Background(), "x")
	require.True(t, perr.IsCode(err, perr.ErrorCodeUnavailable))
	_, err = d.Sentiment(context.Background(), "x")
	require.True(t, perr.IsCode(err, perr.ErrorCodeUnavailable))
}
