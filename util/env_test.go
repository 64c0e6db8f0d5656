package util

import (
	"testing"
	"time"
)

func TestGetEnv(t *testing.T) {
	cases := []struct {
		name     string
		value    string
		fallback string
		want     string
	}{
		{name: "set", value: "kafka:9092", fallback: "localhost:9092", want: "kafka:9092"},
		{name: "unset uses fallback", value: "", fallback: "localhost:9092", want: "localhost:9092"},
		{name: "blank uses fallback", value: "   ", fallback: "localhost:9092", want: "localhost:9092"},
		{name: "trims whitespace", value: "  nats://n1:4222  ", fallback: "", want: "nats://n1:4222"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("RELAY_TEST_STR", tc.value)
			if got := GetEnv("RELAY_TEST_STR", tc.fallback); got != tc.want {
				t.Fatalf("got=%q want=%q", got, tc.want)
			}
		})
	}
}

func TestGetIntEnv(t *testing.T) {
	cases := []struct {
		name     string
		value    string
		fallback int
		want     int
	}{
		{name: "set", value: "42", fallback: 5, want: 42},
		{name: "unset uses fallback", value: "", fallback: 5, want: 5},
		{name: "garbage uses fallback", value: "forty-two", fallback: 5, want: 5},
		{name: "negative", value: "-3", fallback: 5, want: -3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("RELAY_TEST_INT", tc.value)
			if got := GetIntEnv("RELAY_TEST_INT", tc.fallback); got != tc.want {
				t.Fatalf("got=%d want=%d", got, tc.want)
			}
		})
	}
}

func TestGetDurationEnv(t *testing.T) {
	cases := []struct {
		name     string
		value    string
		fallback time.Duration
		want     time.Duration
	}{
		{name: "set", value: "750ms", fallback: time.Second, want: 750 * time.Millisecond},
		{name: "unset uses fallback", value: "", fallback: time.Second, want: time.Second},
		{name: "garbage uses fallback", value: "soon", fallback: time.Second, want: time.Second},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("RELAY_TEST_DUR", tc.value)
			if got := GetDurationEnv("RELAY_TEST_DUR", tc.fallback); got != tc.want {
				t.Fatalf("got=%v want=%v", got, tc.want)
			}
		})
	}
}
