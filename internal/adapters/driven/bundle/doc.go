// Package bundle reads Annofab simple annotation bundles.
//
// A bundle is the ZIP file downloaded from Annofab or the directory it extracts to.
// Each annotation file lives at <task_id>/<input_data_id>.json and the files its
// details reference (segmentation images) at <task_id>/<input_data_id>/<data_uri>.
package bundle
