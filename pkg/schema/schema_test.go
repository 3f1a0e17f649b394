package schema

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/sr"
)

type MockRegistry struct {
	mock.Mock
}

func (m *MockRegistry) CreateSchema(
	ctx context.Context, subject string, s sr.Schema,
) (sr.SubjectSchema, error) {
	args := m.Called(ctx, subject, s)
	return args.Get(0).(sr.SubjectSchema), args.Error(1)
}

func TestSchemaCreater(t *testing.T) {
	want := sr.Schema{Schema: ClientEventSchemaTextV1, Type: sr.TypeAvro}

	t.Run("Regular", func(t *testing.T) {
		reg := &MockRegistry{}
		reg.On("CreateSchema", t.Context(), "events-value", want).
			Return(sr.SubjectSchema{Subject: "events-value", ID: 12}, nil)

		id, err := SchemaCreater{cl: reg}.DetermineID(
			t.Context(), "events-value", ClientEventSchemaTextV1,
		)
		require.NoError(t, err)
		assert.Equal(t, 12, id)
	})

	t.Run("Error", func(t *testing.T) {
		errReg := errors.New("incompatible schema")
		reg := &MockRegistry{}
		reg.On("CreateSchema", t.Context(), "events-value", want).
			Return(sr.SubjectSchema{}, errReg)

		_, err := SchemaCreater{cl: reg}.DetermineID(
			t.Context(), "events-value", ClientEventSchemaTextV1,
		)
		require.ErrorIs(t, err, errReg)
	})
}
