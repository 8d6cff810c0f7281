package app

// Round exposes round for tests.
var Round = round
