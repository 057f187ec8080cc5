package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureCompleteToy_IsCool(t *testing.T) {
	// 完全回文
	cool := (&FeatureCompleteToy{Name: "level"}).IsCool()
	require.NotNil(t, cool)
	assert.True(t, *cool)

	// 忽略大小写才是回文
	notCool := (&FeatureCompleteToy{Name: "Racecar"}).IsCool()
	require.NotNil(t, notCool)
	assert.False(t, *notCool)

	// 非回文
	assert.Nil(t, (&FeatureCompleteToy{Name: "Lotso"}).IsCool())
}

func TestModels_PK(t *testing.T) {
	assert.Equal(t, "12", (&FeatureCompleteToy{ID: 12}).PK())
	assert.Equal(t, "Test Toy", (&FeatureCompleteToy{Name: "Test Toy"}).String())
	assert.Equal(t, "3", (&JSONStreamModel{ID: 3}).PK())
	assert.Equal(t, "JSONStreamModel object (3)", (&JSONStreamModel{ID: 3}).String())
}

func TestUser_Active(t *testing.T) {
	assert.True(t, User{Status: UserStatusActive}.Active())
	assert.False(t, User{Status: UserStatusLocked}.Active())
	assert.Equal(t, "admin_users", User{}.TableName())
}
