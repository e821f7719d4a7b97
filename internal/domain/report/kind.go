package report

import (
	"fmt"
	"strings"
)

// Kind identifies one of the fixed station report categories
type Kind string

const (
	KindEquipment  Kind = "equipment"  // 设备故障
	KindEmergency  Kind = "emergency"  // 突发事件
	KindInspection Kind = "inspection" // 检查汇报
)

// Kinds lists every report kind in display order
var Kinds = []Kind{KindEquipment, KindEmergency, KindInspection}

// String returns the string representation of the kind
func (k Kind) String() string {
	return string(k)
}

// IsValid returns true if the kind is one of the defined constants
func (k Kind) IsValid() bool {
	switch k {
	case KindEquipment, KindEmergency, KindInspection:
		return true
	default:
		return false
	}
}

// ParseKind maps host input onto a report kind
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}
