package postgressink

import "errors"

var ErrEmptyTableName = errors.New("table name must not be empty")
var ErrNilDatabaseConnection = errors.New("database connection must not be nil")
var ErrNilRunID = errors.New("run id must not be the nil uuid")
var ErrBuildingQueryFailed = errors.New("building query failed")
var ErrWritingRecordsFailed = errors.New("writing records failed")
var ErrQueryingRecordsFailed = errors.New("querying records failed")
var ErrScanningRowFailed = errors.New("scanning db row failed")
