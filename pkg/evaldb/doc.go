// Copyright (c) 2025 evaldb
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package evaldb is a client for the evaldb query service.
//
// A database is addressed by its key. Queries are function bodies in the
// database's language, evaluated server side with named arguments:
//
//	db, err := evaldb.New("0b0e4c1e-...")
//	if err != nil {
//		return err
//	}
//	n, err := db.Write(ctx, "counter = (counter or 0) + by; return counter", evaldb.A("by", 2))
//
// Read and Write differ only in the readonly flag sent to the service.
// Errors reported by the service come back as *Error with KindQuery:
//
//	if errors.Is(err, evaldb.ErrQuery) {
//		var qe *evaldb.Error
//		errors.As(err, &qe)
//		log.Println("query failed:", qe.Message)
//	}
//
// Transport and decoding failures are returned wrapped, never translated.
package evaldb
