package report

// Layout controls how a section value is placed after its label
type Layout string

const (
	LayoutInline    Layout = "inline"    // value on the label line
	LayoutDateTime  Layout = "datetime"  // inline, normalized by DateTimeFormatter
	LayoutMultiline Layout = "multiline" // value on the following line(s)
	LayoutSignature Layout = "signature" // <role>：<name>（<id>）
)

// Section describes one numbered entry of a report
type Section struct {
	Label  string `json:"label"`
	Key    string `json:"key"`
	Layout Layout `json:"layout"`

	// Signature sections only
	Role  string `json:"role,omitempty"`
	IDKey string `json:"id_key,omitempty"`
}

// Keys returns the field keys the section reads
func (s Section) Keys() []string {
	if s.Layout == LayoutSignature {
		return []string{s.Key, s.IDKey}
	}
	return []string{s.Key}
}

// Schema is the fixed template of one report kind
type Schema struct {
	Kind     Kind      `json:"kind"`
	Title    string    `json:"title"`
	Header   string    `json:"header"` // appended to the station name
	Sections []Section `json:"sections"`
}

// Fields returns every field key of the schema in render order
func (s Schema) Fields() []string {
	var keys []string
	for _, sec := range s.Sections {
		keys = append(keys, sec.Keys()...)
	}
	return keys
}

// Field keys shared across kinds
const (
	FieldTime       = "time"
	FieldLocation   = "location"
	FieldImpact     = "impact"
	FieldProcess    = "process"
	FieldMeasures   = "measures"
	FieldReporter   = "reporter"
	FieldReporterID = "reporterId"
	FieldReviewer   = "reviewer"
	FieldReviewerID = "reviewerId"
)

var signatures = []Section{
	{Label: "报告人", Key: FieldReporter, IDKey: FieldReporterID, Role: "值班员", Layout: LayoutSignature},
	{Label: "审核人", Key: FieldReviewer, IDKey: FieldReviewerID, Role: "值班站长", Layout: LayoutSignature},
}

var schemas = map[Kind]Schema{
	KindEquipment: {
		Kind:   KindEquipment,
		Title:  "设备故障",
		Header: "站报(设备故障)：",
		Sections: append([]Section{
			{Label: "发生时间", Key: FieldTime, Layout: LayoutDateTime},
			{Label: "发生地点", Key: FieldLocation, Layout: LayoutInline},
			{Label: "故障设备", Key: "equipmentName", Layout: LayoutInline},
			{Label: "故障现象", Key: "phenomenon", Layout: LayoutInline},
			{Label: "影响情况", Key: FieldImpact, Layout: LayoutInline},
			{Label: "处理过程", Key: FieldProcess, Layout: LayoutMultiline},
			{Label: "当前措施", Key: FieldMeasures, Layout: LayoutMultiline},
		}, signatures...),
	},
	KindEmergency: {
		Kind:   KindEmergency,
		Title:  "突发事件",
		Header: "站报（突发事件）：",
		Sections: append([]Section{
			{Label: "发生时间", Key: FieldTime, Layout: LayoutDateTime},
			{Label: "发生地点", Key: FieldLocation, Layout: LayoutInline},
			{Label: "事件类型", Key: "type", Layout: LayoutInline},
			{Label: "事件描述", Key: "description", Layout: LayoutInline},
			{Label: "影响情况", Key: FieldImpact, Layout: LayoutInline},
			{Label: "处理过程", Key: FieldProcess, Layout: LayoutMultiline},
			{Label: "当前状态", Key: "status", Layout: LayoutMultiline},
		}, signatures...),
	},
	KindInspection: {
		Kind:   KindInspection,
		Title:  "检查汇报",
		Header: "站报：",
		Sections: append([]Section{
			{Label: "检查时间", Key: FieldTime, Layout: LayoutDateTime},
			{Label: "检查人员", Key: "personnel", Layout: LayoutInline},
			{Label: "检查内容", Key: "content", Layout: LayoutMultiline},
			{Label: "检查发现问题", Key: "problems", Layout: LayoutMultiline},
			{Label: "整改措施", Key: FieldMeasures, Layout: LayoutMultiline},
		}, signatures...),
	},
}

// SchemaFor returns the template of a kind; ok is false for unknown kinds
func SchemaFor(k Kind) (Schema, bool) {
	s, ok := schemas[k]
	return s, ok
}
