package controllers

import (
	"context"
	"fmt"

	"VibeShared/cache"
)

func invalidateProfileSummaryCache(publicID string) {
	if publicID == "" {
		return
	}
	_ = cache.Delete(context.Background(), "profile_summary:"+publicID)
}

func invalidateFeedCache(userID uint) {
	if userID == 0 {
		return
	}
	_ = cache.DeleteByPrefix(context.Background(), fmt.Sprintf("feed:%d:", userID))
}
