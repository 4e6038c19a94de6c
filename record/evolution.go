package record

import (
	"github.com/arloliu/wyre/errs"
	"github.com/arloliu/wyre/format"
	"github.com/arloliu/wyre/iobuf"
	"github.com/arloliu/wyre/prim"
)

// encodeSteps serializes steps with their own freshly created string
// table, so field names and rename identifiers are always deduplicated
// regardless of the session's string_dedup setting (spec section 4.C:
// dedup eligibility for these identifiers does not depend on the
// user-text flag).
func encodeSteps(steps []Step) ([]byte, error) {
	dedup := prim.NewStringTable()
	buf := iobuf.NewOutput(64)
	prim.WriteU32(buf, uint32(len(steps))) //nolint:gosec

	for _, s := range steps {
		buf.WriteUint8(uint8(s.Kind))

		switch s.Kind {
		case format.StepInitialVersion:
			prim.WriteU32(buf, s.FieldCount)
		case format.StepFieldAdded:
			if err := prim.WriteText(buf, s.Name, dedup); err != nil {
				return nil, err
			}
			prim.WriteU32(buf, s.Version)
		case format.StepFieldMadeOptional, format.StepFieldRemoved:
			if err := prim.WriteText(buf, s.Name, dedup); err != nil {
				return nil, err
			}
		case format.StepFieldRenamed:
			if err := prim.WriteText(buf, s.OldName, dedup); err != nil {
				return nil, err
			}
			if err := prim.WriteText(buf, s.NewName, dedup); err != nil {
				return nil, err
			}
		}
	}

	return buf.Bytes(), nil
}

func decodeSteps(in *iobuf.Input) ([]Step, error) {
	dedup := prim.NewStringTable()
	count, err := prim.ReadU32(in)
	if err != nil {
		return nil, err
	}

	steps := make([]Step, 0, count)
	for range count {
		kindByte, err := in.ReadUint8()
		if err != nil {
			return nil, err
		}
		kind := format.EvolutionStepKind(kindByte)

		var s Step
		s.Kind = kind

		switch kind {
		case format.StepInitialVersion:
			s.FieldCount, err = prim.ReadU32(in)
		case format.StepFieldAdded:
			s.Name, err = prim.ReadText(in, dedup)
			if err != nil {
				break
			}
			s.Version, err = prim.ReadU32(in)
		case format.StepFieldMadeOptional, format.StepFieldRemoved:
			s.Name, err = prim.ReadText(in, dedup)
		case format.StepFieldRenamed:
			s.OldName, err = prim.ReadText(in, dedup)
			if err != nil {
				break
			}
			s.NewName, err = prim.ReadText(in, dedup)
		default:
			err = errs.ErrMalformedHeader
		}
		if err != nil {
			return nil, err
		}

		steps = append(steps, s)
	}

	return steps, nil
}

// buildRenameResolver merges the FieldRenamed steps found across every
// steps list given (typically the writer's and the reader's own
// ladders) into one name-resolution function, so a name can be
// canonicalized regardless of which side's schema recorded the rename
// (spec section 4.E: "applying renames in both directions").
func buildRenameResolver(stepsList ...[]Step) func(string) string {
	alias := make(map[string]string)
	for _, steps := range stepsList {
		for _, s := range steps {
			if s.Kind == format.StepFieldRenamed {
				alias[s.OldName] = s.NewName
			}
		}
	}

	return func(name string) string {
		visited := make(map[string]bool)
		for {
			if visited[name] {
				return name
			}
			next, ok := alias[name]
			if !ok {
				return name
			}
			visited[name] = true
			name = next
		}
	}
}
