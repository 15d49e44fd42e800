// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

var ToPgx5URL = toPgx5URL

var SchemaFiles = schemaFiles
