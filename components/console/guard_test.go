package console

import "testing"

func TestDecide(t *testing.T) {
	cases := []struct {
		name   string
		status AuthStatus
		want   GuardDecision
	}{
		{"checking waits", StatusChecking, GuardWait},
		{"authenticated allows", StatusAuthenticated, GuardAllow},
		{"unauthenticated denies", StatusUnauthenticated, GuardDeny},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Decide(AuthState{Status: tc.status}); got != tc.want {
				t.Fatalf("Decide(%s) = %d, want %d", tc.status, got, tc.want)
			}
		})
	}
}

func TestCanEnter(t *testing.T) {
	if CanEnter(AuthState{Status: StatusChecking}) {
		t.Fatal("checking must not enter")
	}
	if !CanEnter(AuthState{Status: StatusAuthenticated}) {
		t.Fatal("authenticated must enter")
	}
}
