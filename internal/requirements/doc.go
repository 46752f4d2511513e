// Package requirements turns catalog requirement tables into course records.
//
// A Classifier walks the materialized rows of each table with an explicit cursor.
// Every row is classified, in precedence order, as a year header, a semester header,
// a selection block ("Select one of the following"), a special entry ("Senior
// Design") or a regular course row. Selection blocks consume a variable number of
// following option rows, so the cursor may jump ahead. Regular courses are recorded
// once per program; special entries are recorded every time they appear.
//
// Prerequisites are resolved through a PrereqResolver for every course code a record
// carries, including each alternative.
package requirements
