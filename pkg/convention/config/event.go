package config

type EventType string

const (
	EventCreateBlueprintVersion EventType = "CREATE_BLUEPRINT_VERSION"
	EventDeleteBlueprint        EventType = "DELETE_BLUEPRINT"
	EventTest                   EventType = "TEST"
	EventUnsupported            EventType = "UNSUPPORTED"
)

type TopicId string

const (
	TopicBlueprintVersion TopicId = "blueprint.version.configuration"
	TopicBlueprint        TopicId = "blueprint.configuration"
	TopicTest             TopicId = "TEST"
	TopicUnsupported      TopicId = "UNSUPPORTED"
)

// Metadata is attached by the platform to every event it delivers.
type Metadata struct {
	UserName string `json:"userName"`
}

// Payload is the subset of a blueprint event the action reads. Version
// events carry blueprintId/blueprintName/version, blueprint events carry
// id/name.
type Payload struct {
	EventType     *string  `json:"eventType"`
	EventTopicId  *string  `json:"eventTopicId"`
	BlueprintId   string   `json:"blueprintId"`
	BlueprintName string   `json:"blueprintName"`
	Version       Input    `json:"version"`
	Id            string   `json:"id"`
	Name          string   `json:"name"`
	Metadata      Metadata `json:"__metadata"`
}

// DetectEvent classifies a payload. A payload without any eventType is a
// manual test invocation.
func DetectEvent(p Payload) EventType {
	if p.EventType == nil {
		return EventTest
	}

	switch EventType(*p.EventType) {
	case EventCreateBlueprintVersion:
		return EventCreateBlueprintVersion
	case EventDeleteBlueprint:
		return EventDeleteBlueprint
	}

	return EventUnsupported
}

func DetectTopic(p Payload) TopicId {
	if p.EventTopicId == nil {
		return TopicTest
	}

	switch TopicId(*p.EventTopicId) {
	case TopicBlueprintVersion:
		return TopicBlueprintVersion
	case TopicBlueprint:
		return TopicBlueprint
	}

	return TopicUnsupported
}
