package user

import (
	"context"
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"frontuser/internal/core/security"
	"frontuser/internal/domain/party"
)

// tokenKind drives generated token sequences.
const (
	kindNoAccount = iota
	kindUnassigned
	kindOrganization
	kindUser
)

func genTokens(t *rapid.T, parties *fakeParties) ([]security.Token, *party.User) {
	kinds := rapid.SliceOfN(rapid.IntRange(kindNoAccount, kindUser), 0, 8).Draw(t, "kinds")

	var (
		tokens []security.Token
		first  *party.User
	)
	for i, k := range kinds {
		switch k {
		case kindNoAccount:
			tokens = append(tokens, fakeToken{})
		case kindUnassigned:
			tokens = append(tokens, parties.accountWith(nil))
		case kindOrganization:
			tokens = append(tokens, parties.accountWith(party.NewOrganization(fmt.Sprintf("org-%d", i))))
		case kindUser:
			u := party.NewUser(party.PersonName{FirstName: fmt.Sprintf("user-%d", i)}, "")
			if first == nil {
				first = u
			}
			tokens = append(tokens, parties.accountWith(u))
		}
	}
	return tokens, first
}

func TestResolveProperties_FirstUserWins(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		parties := newFakeParties()
		tokens, want := genTokens(t, parties)
		sc := &fakeContext{ready: true, hash: "h", tokens: tokens}

		got, err := NewCurrentUserResolver(parties).Resolve(context.Background(), sc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != want {
			t.Fatalf("expected %v, got %v", want, got)
		}
	})
}

func TestResolveProperties_AtMostOneComputationPerHash(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		parties := newFakeParties()
		tokens, _ := genTokens(t, parties)
		sc := &fakeContext{ready: true, hash: rapid.StringMatching(`[a-f0-9]{8}`).Draw(t, "hash"), tokens: tokens}
		r := NewCurrentUserResolver(parties)
		repeats := rapid.IntRange(1, 5).Draw(t, "repeats")

		first, err := r.Resolve(context.Background(), sc)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		callsAfterFirst := parties.Calls()

		for i := 0; i < repeats; i++ {
			again, err := r.Resolve(context.Background(), sc)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if again != first {
				t.Fatalf("memoized result changed: %v != %v", again, first)
			}
		}
		if parties.Calls() != callsAfterFirst {
			t.Fatalf("party service called again: %d -> %d", callsAfterFirst, parties.Calls())
		}
		if sc.tokenReads != 1 {
			t.Fatalf("tokens read %d times", sc.tokenReads)
		}
	})
}

func TestResolveProperties_UninitializedNeverCaches(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		parties := newFakeParties()
		tokens, _ := genTokens(t, parties)
		sc := &fakeContext{ready: false, hash: "h", tokens: tokens}
		r := NewCurrentUserResolver(parties)

		got, err := r.Resolve(context.Background(), sc)
		if err != nil || got != nil {
			t.Fatalf("expected nil, nil; got %v, %v", got, err)
		}
		if len(r.runtimeCache) != 0 || parties.Calls() != 0 {
			t.Fatalf("uninitialized context touched the cache or party service")
		}
	})
}
