package redis

import (
	"fmt"

	"github.com/quailholm/wolfgame-go/internal/model"
)

// Key prefix for all wolfgame data in Redis
const keyPrefix = "wolfgame"

func archiveKey(id model.ArchiveID) string {
	return fmt.Sprintf("%s:archive:%s", keyPrefix, id)
}

func archivesByEndIndexKey() string {
	return fmt.Sprintf("%s:idx:archives_by_end", keyPrefix)
}
