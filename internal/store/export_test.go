package store

func UpsertUserSQLForTest() string { return upsertUserSQL }
