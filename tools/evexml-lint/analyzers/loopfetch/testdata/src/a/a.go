package a

import "context"

type Character interface {
	Field(ctx context.Context, name string) (string, bool, error)
	Name(ctx context.Context) (string, error)
}

type Session interface {
	AccountStatus(ctx context.Context) (interface{}, error)
	SkillQueue(ctx context.Context, characterID int64) ([]interface{}, error)
}

func bad(ctx context.Context, chars []Character, s Session, ids []int64) {
	for _, ch := range chars {
		ch.Field(ctx, "securityStatus") // want "potential N\\+1: Field called inside loop"
	}
	for _, id := range ids {
		s.SkillQueue(ctx, id) // want "potential N\\+1: SkillQueue called inside loop"
	}
}

func good(ctx context.Context, chars []Character) {
	// Name is not on the fetch list - should not flag
	for _, ch := range chars {
		_, _ = ch.Name(ctx)
	}
}
