// Package storage provides the S3/MinIO-backed archive client.
//
// Every committed import archives the normalized upload bundle as a JSON
// object so operators can always inspect exactly what was uploaded, even
// after the source spreadsheet is gone. The Client interface exists so the
// import service can be tested against a mock (see mocks/).
package storage
