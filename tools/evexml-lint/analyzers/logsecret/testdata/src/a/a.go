package a

type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
}

type Credential struct {
	KeyID string
	VCode string
}

func bad(log Logger, cred Credential) {
	log.Debugw("calling endpoint", "key_id", cred.KeyID, "v_code", cred.VCode) // want "vCode passed to Debugw" "vCode passed to Debugw"
	vCode := cred.VCode
	log.Warnw("credential rejected", "vcode", vCode) // want "vCode passed to Warnw" "vCode passed to Warnw"
}

func good(log Logger, cred Credential) {
	// key_id alone is fine - should not flag
	log.Debugw("calling endpoint", "key_id", cred.KeyID)
	_ = cred.VCode
}
