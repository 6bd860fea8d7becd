package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Annofab detail data types, stored in the "_type" field of a detail's data.
const (
	DataTypeBoundingBox    = "BoundingBox"
	DataTypePoints         = "Points"
	DataTypeSegmentation   = "Segmentation"
	DataTypeSegmentationV2 = "SegmentationV2"
)

// SimpleAnnotation is the content of one JSON file in an Annofab simple annotation bundle.
// One file holds every annotation of one input data within one task.
type SimpleAnnotation struct {
	AnnotationFormatVersion string   `json:"annotation_format_version,omitempty"`
	ProjectID               string   `json:"project_id,omitempty"`
	TaskID                  string   `json:"task_id"`
	TaskPhase               string   `json:"task_phase"`
	TaskPhaseStage          int      `json:"task_phase_stage,omitempty"`
	TaskStatus              string   `json:"task_status"`
	InputDataID             string   `json:"input_data_id"`
	InputDataName           string   `json:"input_data_name"`
	Details                 []Detail `json:"details"`
	UpdatedDatetime         string   `json:"updated_datetime,omitempty"`
}

// Detail is one annotation of an input data.
type Detail struct {
	AnnotationID string         `json:"annotation_id"`
	Label        string         `json:"label"`
	Data         DetailData     `json:"data"`
	Attributes   map[string]any `json:"attributes"`
}

// UnmarshalJSON decodes a detail, resolving its data by the "_type" discriminator.
func (d *Detail) UnmarshalJSON(b []byte) error {
	var raw struct {
		AnnotationID string          `json:"annotation_id"`
		Label        string          `json:"label"`
		Data         json.RawMessage `json:"data"`
		Attributes   map[string]any  `json:"attributes"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	data, err := ParseDetailData(raw.Data)
	if err != nil {
		return fmt.Errorf("annotation_id=%q: %w", raw.AnnotationID, err)
	}

	d.AnnotationID = raw.AnnotationID
	d.Label = raw.Label
	d.Data = data
	d.Attributes = raw.Attributes
	return nil
}

// DetailData is the geometry payload of a detail.
// The set of implementations is closed: *BoundingBox, *Points, *SegmentationData and
// *UnsupportedData for every other "_type".
type DetailData interface {
	// DataType returns the "_type" value of the payload.
	DataType() string
}

// Point is a pixel coordinate in Annofab data.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// BoundingBox is a rectangle annotation.
type BoundingBox struct {
	LeftTop     Point `json:"left_top"`
	RightBottom Point `json:"right_bottom"`
}

// DataType returns "BoundingBox".
func (*BoundingBox) DataType() string { return DataTypeBoundingBox }

// MarshalJSON adds the "_type" discriminator.
func (b BoundingBox) MarshalJSON() ([]byte, error) {
	type alias BoundingBox
	return json.Marshal(struct {
		alias
		Type string `json:"_type"`
	}{alias(b), DataTypeBoundingBox})
}

// Points is a polygon (or polyline) annotation.
type Points struct {
	Points []Point `json:"points"`
}

// DataType returns "Points".
func (*Points) DataType() string { return DataTypePoints }

// MarshalJSON adds the "_type" discriminator.
func (p Points) MarshalJSON() ([]byte, error) {
	type alias Points
	if p.Points == nil {
		p.Points = []Point{}
	}
	return json.Marshal(struct {
		alias
		Type string `json:"_type"`
	}{alias(p), DataTypePoints})
}

// SegmentationData is a raster annotation. DataURI names the mask image stored next to the
// annotation JSON file.
type SegmentationData struct {
	DataURI string `json:"data_uri"`
	V2      bool   `json:"-"`
}

// DataType returns "Segmentation" or "SegmentationV2".
func (s *SegmentationData) DataType() string {
	if s.V2 {
		return DataTypeSegmentationV2
	}
	return DataTypeSegmentation
}

// MarshalJSON adds the "_type" discriminator.
func (s SegmentationData) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		DataURI string `json:"data_uri"`
		Type    string `json:"_type"`
	}{s.DataURI, s.DataType()})
}

// UnsupportedData keeps the payload of any data type the converters do not handle.
type UnsupportedData struct {
	Type string
	Raw  json.RawMessage
}

// DataType returns the original "_type".
func (u *UnsupportedData) DataType() string { return u.Type }

// MarshalJSON writes the payload back unchanged.
func (u UnsupportedData) MarshalJSON() ([]byte, error) {
	if len(u.Raw) == 0 {
		return []byte("null"), nil
	}
	return u.Raw, nil
}

// ParseDetailData decodes a data payload according to its "_type".
func ParseDetailData(b []byte) (DetailData, error) {
	if len(bytes.TrimSpace(b)) == 0 || bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return nil, fmt.Errorf("%w: detail has no data", ErrInvalidInput)
	}

	var head struct {
		Type string `json:"_type"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return nil, err
	}

	switch head.Type {
	case DataTypeBoundingBox:
		var v BoundingBox
		if err := json.Unmarshal(b, &v); err != nil {
			return nil, err
		}
		return &v, nil
	case DataTypePoints:
		var v Points
		if err := json.Unmarshal(b, &v); err != nil {
			return nil, err
		}
		return &v, nil
	case DataTypeSegmentation, DataTypeSegmentationV2:
		v := SegmentationData{V2: head.Type == DataTypeSegmentationV2}
		if err := json.Unmarshal(b, &v); err != nil {
			return nil, err
		}
		return &v, nil
	default:
		return &UnsupportedData{Type: head.Type, Raw: append(json.RawMessage(nil), b...)}, nil
	}
}

// AnnotationDetails is the content of an Annofab per-input-data annotation file that
// `annofabcli annotation import` accepts.
type AnnotationDetails struct {
	Details []Detail `json:"details"`
}

// InputData is one record of the Annofab input data list
// (`annofabcli input_data download`).
type InputData struct {
	InputDataID    string                  `json:"input_data_id"`
	InputDataName  string                  `json:"input_data_name"`
	InputDataPath  string                  `json:"input_data_path,omitempty"`
	SystemMetadata InputDataSystemMetadata `json:"system_metadata"`
}

// InputDataSystemMetadata holds platform-computed metadata of an input data.
type InputDataSystemMetadata struct {
	OriginalResolution *Resolution `json:"original_resolution"`
}

// Resolution is an image size in pixels.
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Task is one record of the Annofab task list (`annofabcli task download`).
type Task struct {
	TaskID          string   `json:"task_id"`
	Phase           string   `json:"phase,omitempty"`
	Status          string   `json:"status,omitempty"`
	InputDataIDList []string `json:"input_data_id_list"`
}

// InputDataPutRequest is one element of the `annofabcli input_data put --json` payload.
type InputDataPutRequest struct {
	InputDataID   string `json:"input_data_id"`
	InputDataName string `json:"input_data_name"`
	InputDataPath string `json:"input_data_path"`
}
