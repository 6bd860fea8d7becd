package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleAnnotation_Unmarshal(t *testing.T) {
	input := `{
		"annotation_format_version": "1.2.0",
		"project_id": "prj1",
		"task_id": "task1",
		"task_phase": "acceptance",
		"task_phase_stage": 1,
		"task_status": "complete",
		"input_data_id": "input1",
		"input_data_name": "a.jpg",
		"details": [
			{"annotation_id": "b1", "label": "car", "attributes": {"occluded": true},
			 "data": {"_type": "BoundingBox", "left_top": {"x": 1, "y": 2}, "right_bottom": {"x": 3, "y": 4}}},
			{"annotation_id": "p1", "label": "person", "attributes": {},
			 "data": {"_type": "Points", "points": [{"x": 0, "y": 0}, {"x": 5, "y": 0}, {"x": 5, "y": 5}]}},
			{"annotation_id": "s1", "label": "road", "attributes": {},
			 "data": {"_type": "Segmentation", "data_uri": "s1"}},
			{"annotation_id": "s2", "label": "road", "attributes": {},
			 "data": {"_type": "SegmentationV2", "data_uri": "s2"}},
			{"annotation_id": "c1", "label": "weather", "attributes": {},
			 "data": {"_type": "Classification"}}
		]
	}`

	var a SimpleAnnotation
	require.NoError(t, json.Unmarshal([]byte(input), &a))

	assert.Equal(t, "task1", a.TaskID)
	assert.Equal(t, "acceptance", a.TaskPhase)
	assert.Equal(t, "complete", a.TaskStatus)
	assert.Equal(t, "a.jpg", a.InputDataName)
	require.Len(t, a.Details, 5)

	assert.Equal(t, &BoundingBox{LeftTop: Point{1, 2}, RightBottom: Point{3, 4}}, a.Details[0].Data)
	assert.Equal(t, true, a.Details[0].Attributes["occluded"])
	assert.Equal(t, &Points{Points: []Point{{0, 0}, {5, 0}, {5, 5}}}, a.Details[1].Data)
	assert.Equal(t, &SegmentationData{DataURI: "s1"}, a.Details[2].Data)
	assert.Equal(t, DataTypeSegmentationV2, a.Details[3].Data.DataType())
	assert.Equal(t, "Classification", a.Details[4].Data.DataType())
	assert.IsType(t, &UnsupportedData{}, a.Details[4].Data)
}

func TestDetail_UnmarshalMissingData(t *testing.T) {
	var d Detail
	err := json.Unmarshal([]byte(`{"annotation_id":"x","label":"car"}`), &d)

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), `annotation_id="x"`)
}

func TestDetailData_MarshalAddsType(t *testing.T) {
	tests := []struct {
		name string
		data DetailData
		want string
	}{
		{"bounding box", &BoundingBox{LeftTop: Point{1, 2}, RightBottom: Point{3, 4}},
			`{"_type":"BoundingBox","left_top":{"x":1,"y":2},"right_bottom":{"x":3,"y":4}}`},
		{"points", &Points{Points: []Point{{1, 2}}}, `{"_type":"Points","points":[{"x":1,"y":2}]}`},
		{"empty points", &Points{}, `{"_type":"Points","points":[]}`},
		{"segmentation", &SegmentationData{DataURI: "s1"}, `{"_type":"Segmentation","data_uri":"s1"}`},
		{"segmentation v2", &SegmentationData{DataURI: "s2", V2: true}, `{"_type":"SegmentationV2","data_uri":"s2"}`},
		{"unsupported", &UnsupportedData{Type: "Range", Raw: json.RawMessage(`{"_type":"Range","begin":1}`)},
			`{"_type":"Range","begin":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(Detail{AnnotationID: "a", Label: "l", Data: tt.data, Attributes: map[string]any{}})
			require.NoError(t, err)

			var raw struct {
				Data json.RawMessage `json:"data"`
			}
			require.NoError(t, json.Unmarshal(b, &raw))
			assert.JSONEq(t, tt.want, string(raw.Data))
		})
	}
}

func TestDetail_RoundTrip(t *testing.T) {
	want := Detail{
		AnnotationID: "a1",
		Label:        "car",
		Data:         &Points{Points: []Point{{1, 2}, {3, 4}, {5, 6}}},
		Attributes:   map[string]any{"coco.annotation_id": float64(5)},
	}

	b, err := json.Marshal(want)
	require.NoError(t, err)
	var got Detail
	require.NoError(t, json.Unmarshal(b, &got))

	assert.Equal(t, want, got)
}

func TestInputData_Unmarshal(t *testing.T) {
	var list []InputData
	require.NoError(t, json.Unmarshal([]byte(`[
		{"input_data_id":"d1","input_data_name":"a.jpg","system_metadata":{"original_resolution":{"width":640,"height":480}}},
		{"input_data_id":"d2","input_data_name":"b.mp4","system_metadata":{"original_resolution":null}}
	]`), &list))

	require.Len(t, list, 2)
	assert.Equal(t, &Resolution{Width: 640, Height: 480}, list[0].SystemMetadata.OriginalResolution)
	assert.Nil(t, list[1].SystemMetadata.OriginalResolution)
}
