package messaging

import "fmt"

type ChangeTopic string

const (
	CatalogReplaced ChangeTopic = "catalog_replaced"
)

func getName(prefix string, topic ChangeTopic) string {
	return fmt.Sprintf("%s_%s", prefix, topic)
}
