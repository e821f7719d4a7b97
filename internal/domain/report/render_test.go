package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cst = time.FixedZone("CST", 8*3600)

func equipmentFields() FieldSet {
	return FieldSet{
		"time":          "2024-03-15T08:05",
		"location":      "机房",
		"equipmentName": "UPS",
		"phenomenon":    "断电",
		"impact":        "全站停电10分钟",
		"process":       "切换备用电源",
		"measures":      "已恢复",
		"reporter":      "张三",
		"reporterId":    "1001",
		"reviewer":      "李四",
		"reviewerId":    "2001",
	}
}

func TestRender_Equipment(t *testing.T) {
	got := Render(KindEquipment, "北京站", equipmentFields(), NewDateTimeFormatter(cst))

	want := "北京站站报(设备故障)：\n" +
		"一、发生时间：2024年03月15日 08:05\n" +
		"二、发生地点：机房\n" +
		"三、故障设备：UPS\n" +
		"四、故障现象：断电\n" +
		"五、影响情况：全站停电10分钟\n" +
		"六、处理过程：\n" +
		"切换备用电源\n" +
		"七、当前措施：\n" +
		"已恢复\n" +
		"八、报告人：值班员：张三（1001）\n" +
		"九、审核人：值班站长：李四（2001）"

	assert.Equal(t, want, got)
}

func TestRender_Emergency(t *testing.T) {
	fields := FieldSet{
		"time":        "2024-07-01T23:40",
		"location":    "站台",
		"type":        "大客流",
		"description": "演唱会散场",
		"impact":      "进站限流",
		"process":     "启动三级客控\n增派站务员",
		"status":      "客流平稳",
		"reporter":    "王五",
		"reporterId":  "1002",
		"reviewer":    "赵六",
		"reviewerId":  "2002",
	}

	got := Render(KindEmergency, "西直门", fields, NewDateTimeFormatter(cst))

	want := "西直门站报（突发事件）：\n" +
		"一、发生时间：2024年07月01日 23:40\n" +
		"二、发生地点：站台\n" +
		"三、事件类型：大客流\n" +
		"四、事件描述：演唱会散场\n" +
		"五、影响情况：进站限流\n" +
		"六、处理过程：\n" +
		"启动三级客控\n增派站务员\n" +
		"七、当前状态：\n" +
		"客流平稳\n" +
		"八、报告人：值班员：王五（1002）\n" +
		"九、审核人：值班站长：赵六（2002）"

	assert.Equal(t, want, got)
}

func TestRender_Inspection(t *testing.T) {
	fields := FieldSet{
		"time":       "2024-01-09 09:30",
		"personnel":  "安全员",
		"content":    "消防设施",
		"problems":   "灭火器过期",
		"measures":   "已更换",
		"reporter":   "张三",
		"reporterId": "1001",
		"reviewer":   "李四",
		"reviewerId": "2001",
	}

	got := Render(KindInspection, "东单", fields, NewDateTimeFormatter(cst))

	want := "东单站报：\n" +
		"一、检查时间：2024年01月09日 09:30\n" +
		"二、检查人员：安全员\n" +
		"三、检查内容：\n消防设施\n" +
		"四、检查发现问题：\n灭火器过期\n" +
		"五、整改措施：\n已更换\n" +
		"六、报告人：值班员：张三（1001）\n" +
		"七、审核人：值班站长：李四（2001）"

	assert.Equal(t, want, got)
}

func TestRender_SectionCountAndOrder(t *testing.T) {
	tests := []struct {
		kind   Kind
		labels []string
	}{
		{KindEquipment, []string{"发生时间", "发生地点", "故障设备", "故障现象", "影响情况", "处理过程", "当前措施", "报告人", "审核人"}},
		{KindEmergency, []string{"发生时间", "发生地点", "事件类型", "事件描述", "影响情况", "处理过程", "当前状态", "报告人", "审核人"}},
		{KindInspection, []string{"检查时间", "检查人员", "检查内容", "检查发现问题", "整改措施", "报告人", "审核人"}},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			out := Render(tt.kind, "测试", FieldSet{}, NewDateTimeFormatter(cst))

			var labels []string
			for _, line := range strings.Split(out, "\n")[1:] {
				n := len(labels) + 1
				prefix := Numeral(n) + "、"
				if !strings.HasPrefix(line, prefix) {
					continue
				}
				rest := strings.TrimPrefix(line, prefix)
				labels = append(labels, strings.SplitN(rest, "：", 2)[0])
			}
			assert.Equal(t, tt.labels, labels)
		})
	}
}

func TestRender_DeterministicAndLeadsWithStation(t *testing.T) {
	dtf := NewDateTimeFormatter(cst)
	for _, kind := range Kinds {
		first := Render(kind, "北京站", equipmentFields(), dtf)
		second := Render(kind, "北京站", equipmentFields(), dtf)

		assert.Equal(t, first, second)
		assert.True(t, strings.HasPrefix(first, "北京站站报"), "output should lead with the station name")
	}
}

func TestRender_MissingFieldsDegradeToEmpty(t *testing.T) {
	fields := equipmentFields()
	delete(fields, "phenomenon")
	delete(fields, "process")
	delete(fields, "reviewerId")

	got := Render(KindEquipment, "北京站", fields, NewDateTimeFormatter(cst))

	assert.Contains(t, got, "\n四、故障现象：\n五、")
	assert.Contains(t, got, "\n六、处理过程：\n\n七、")
	assert.True(t, strings.HasSuffix(got, "九、审核人：值班站长：李四（）"))
}

func TestRender_InvalidTimeUsesSentinel(t *testing.T) {
	fields := equipmentFields()
	fields["time"] = "昨天晚上"

	got := Render(KindEquipment, "北京站", fields, NewDateTimeFormatter(cst))

	assert.Contains(t, got, "一、发生时间："+InvalidDateTime+"\n")
}

func TestRender_UnknownKind(t *testing.T) {
	assert.Empty(t, Render(Kind("payroll"), "北京站", equipmentFields(), NewDateTimeFormatter(cst)))
}

func TestNumeral(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "一"},
		{9, "九"},
		{10, "十"},
		{11, "十一"},
		{0, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Numeral(tt.n))
	}
}

func TestSchema_FieldOrder(t *testing.T) {
	tests := []struct {
		kind Kind
		want []string
	}{
		{KindEquipment, []string{"time", "location", "equipmentName", "phenomenon", "impact", "process", "measures", "reporter", "reporterId", "reviewer", "reviewerId"}},
		{KindEmergency, []string{"time", "location", "type", "description", "impact", "process", "status", "reporter", "reporterId", "reviewer", "reviewerId"}},
		{KindInspection, []string{"time", "personnel", "content", "problems", "measures", "reporter", "reporterId", "reviewer", "reviewerId"}},
	}

	for _, tt := range tests {
		schema, ok := SchemaFor(tt.kind)
		require.True(t, ok)
		assert.Equal(t, tt.want, schema.Fields(), tt.kind.String())
	}
}
