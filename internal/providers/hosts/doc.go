// Package hosts stores saved SSH hosts in a local SQLite database.
//
// Saves replace the full list transactionally, mirroring how the
// frontend edits hosts. Inline passwords are moved to the OS credential
// store on the way in; the database only records that a password
// exists. Databases and hosts.json files written by earlier releases
// are migrated on open.
package hosts
