package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTitleFrom(t *testing.T) {
	assert.Equal(t, "short", TitleFrom("short"))

	long := strings.Repeat("я", 150)
	got := TitleFrom(long)
	assert.Equal(t, 100, len([]rune(got)))
	assert.True(t, strings.HasPrefix(long, got))
}

func TestContentType_Valid(t *testing.T) {
	assert.True(t, ContentImage.Valid())
	assert.True(t, ContentVideo.Valid())
	assert.False(t, ContentType("audio").Valid())
}

func TestSubscription_IsEffective(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		sub  *Subscription
		want bool
	}{
		{"nil", nil, false},
		{"active future", &Subscription{Status: SubscriptionActive, EndDate: now.Add(time.Hour)}, true},
		{"active expired", &Subscription{Status: SubscriptionActive, EndDate: now.Add(-time.Hour)}, false},
		{"ends exactly now", &Subscription{Status: SubscriptionActive, EndDate: now}, false},
		{"cancelled future", &Subscription{Status: SubscriptionCancelled, EndDate: now.Add(time.Hour)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sub.IsEffective(now))
		})
	}
}
