package schema

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hamba/avro/v2"
	"github.com/twmb/franz-go/pkg/sr"
)

var ErrTooFewOpts = errors.New("too few options")

// A Serde encodes values in the registry wire format: a magic byte, the
// schema id and the avro payload.
type Serde interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
	SchemaID() int
}

type avroSerde struct {
	id int
	sr *sr.Serde
}

func (s avroSerde) Encode(v any) ([]byte, error) {
	return s.sr.Encode(v)
}

func (s avroSerde) Decode(data []byte, v any) error {
	return s.sr.Decode(data, v)
}

func (s avroSerde) SchemaID() int {
	return s.id
}

type Opt func(*serdeOpts) error

type serdeOpts struct {
	subject string
	si      SchemaIdentifier
}

func SubjectOpt(subject string) Opt {
	return func(so *serdeOpts) error {
		if subject == "" {
			return errors.New("subject is empty string")
		}
		so.subject = subject
		return nil
	}
}

func SchemaIdentifierOpt(si SchemaIdentifier) Opt {
	return func(so *serdeOpts) error {
		if si == nil {
			return errors.New("schema identifier is nil")
		}
		so.si = si
		return nil
	}
}

// NewSerdeClientEventV1 registers [ClientEventSchemaTextV1] under the
// subject and returns the serde of [ClientEventV1].
func NewSerdeClientEventV1(ctx context.Context, opts ...Opt) (Serde, error) {
	const op = "NewSerdeClientEventV1"

	s, err := newAvroSerde(ctx, ClientEventSchemaTextV1, ClientEventV1{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

func newAvroSerde(
	ctx context.Context, schemaText string, example any, opts []Opt,
) (avroSerde, error) {
	var o serdeOpts
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return avroSerde{}, err
		}
	}
	if o.subject == "" || o.si == nil {
		return avroSerde{}, ErrTooFewOpts
	}

	avroSchema, err := avro.Parse(schemaText)
	if err != nil {
		return avroSerde{}, err
	}

	id, err := o.si.DetermineID(ctx, o.subject, schemaText)
	if err != nil {
		return avroSerde{}, err
	}
	slog.Debug("schema identified", "subject", o.subject, "id", id)

	var srSerde sr.Serde
	srSerde.Register(
		id,
		example,
		sr.EncodeFn(func(v any) ([]byte, error) {
			return avro.Marshal(avroSchema, v)
		}),
		sr.DecodeFn(func(data []byte, v any) error {
			return avro.Unmarshal(avroSchema, data, v)
		}),
	)

	return avroSerde{id: id, sr: &srSerde}, nil
}
