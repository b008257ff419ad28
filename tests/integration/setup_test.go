package integration

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
)

// Wire paths of the endpoints the flows exercise.
const (
	pathKeyInfo          = "/account/APIKeyInfo.xml.aspx"
	pathCharacters       = "/account/Characters.xml.aspx"
	pathAccountStatus    = "/account/AccountStatus.xml.aspx"
	pathCharacterInfo    = "/eve/CharacterInfo.xml.aspx"
	pathCharacterSheet   = "/char/CharacterSheet.xml.aspx"
	pathAllianceList     = "/eve/AllianceList.xml.aspx"
	pathSkillTree        = "/eve/SkillTree.xml.aspx"
	pathCorporationSheet = "/corp/CorporationSheet.xml.aspx"
)

const (
	testKeyID = "1234567"
	testVCode = "h9KpzMrQvTgX4WnEbSfAyLdCeUjoRt6I"
)

// fakeAPI is an in-process XML API server. It serves canned bodies by path
// and records every request, so flows can assert what actually crossed the
// wire.
type fakeAPI struct {
	server *httptest.Server

	mu      sync.Mutex
	bodies  map[string]string
	queries map[string][]url.Values
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	api := &fakeAPI{
		bodies:  make(map[string]string),
		queries: make(map[string][]url.Values),
	}
	api.server = httptest.NewServer(http.HandlerFunc(api.handle))
	t.Cleanup(api.server.Close)
	return api
}

func (api *fakeAPI) handle(w http.ResponseWriter, r *http.Request) {
	api.mu.Lock()
	api.queries[r.URL.Path] = append(api.queries[r.URL.Path], r.URL.Query())
	body, ok := api.bodies[r.URL.Path]
	api.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	_, _ = w.Write([]byte(body))
}

// URL returns the server's base URL.
func (api *fakeAPI) URL() string { return api.server.URL }

func (api *fakeAPI) stub(path, body string) {
	api.mu.Lock()
	defer api.mu.Unlock()
	api.bodies[path] = body
}

// hits returns how many requests reached the path.
func (api *fakeAPI) hits(path string) int {
	api.mu.Lock()
	defer api.mu.Unlock()
	return len(api.queries[path])
}

// lastQuery returns the query of the most recent request to the path, nil
// when the path was never hit.
func (api *fakeAPI) lastQuery(path string) url.Values {
	api.mu.Lock()
	defer api.mu.Unlock()
	qs := api.queries[path]
	if len(qs) == 0 {
		return nil
	}
	return qs[len(qs)-1]
}

func envelope(inner string) string {
	return `<?xml version='1.0' encoding='UTF-8'?>
<eveapi version="2">
  <currentTime>2015-04-11 18:00:00</currentTime>
  <result>` + inner + `</result>
  <cachedUntil>2015-04-11 19:00:00</cachedUntil>
</eveapi>`
}

func errorEnvelope(code int, message string) string {
	return fmt.Sprintf(`<?xml version='1.0' encoding='UTF-8'?>
<eveapi version="2">
  <currentTime>2015-04-11 18:00:00</currentTime>
  <error code="%d">%s</error>
  <cachedUntil>2015-04-11 19:00:00</cachedUntil>
</eveapi>`, code, message)
}

const keyInfoXML = `<key accessMask="268435455" type="Account" expires="">
  <rowset name="characters" key="characterID" columns="characterID,characterName,corporationID,corporationName">
    <row characterID="95000001" characterName="Arel Tarn" corporationID="98000001" corporationName="Helios Salvage Works"/>
    <row characterID="95000002" characterName="Mira Voss" corporationID="98000002" corporationName="Deepwater Logistics"/>
  </rowset>
</key>`

const charactersXML = `<rowset name="characters" key="characterID" columns="name,characterID,corporationName,corporationID">
  <row name="Arel Tarn" characterID="95000001" corporationName="Helios Salvage Works" corporationID="98000001"/>
  <row name="Mira Voss" characterID="95000002" corporationName="Deepwater Logistics" corporationID="98000002"/>
</rowset>`

const characterInfoXML = `<characterID>95000001</characterID>
<characterName>Arel Tarn</characterName>
<race>Minmatar</race>
<corporationID>98000001</corporationID>
<corporation>Helios Salvage Works</corporation>
<securityStatus>2.5</securityStatus>`

const characterSheetXML = `<characterID>95000001</characterID>
<name>Arel Tarn</name>
<gender>Female</gender>
<balance>152350075.12</balance>`

const accountStatusXML = `<paidUntil>2016-01-01 00:00:00</paidUntil>
<createDate>2012-05-20 14:22:11</createDate>
<logonCount>1432</logonCount>
<logonMinutes>186120</logonMinutes>`

const allianceListXML = `<rowset name="alliances" key="allianceID" columns="name,shortName,allianceID,executorCorpID,memberCount,startDate">
  <row name="Northern Concord" shortName="NCORD" allianceID="99000010" executorCorpID="98000050" memberCount="2048" startDate="2012-07-04 02:10:00"/>
  <row name="Veldspar Syndicate" shortName="VELD" allianceID="99000020" executorCorpID="98000060" memberCount="300" startDate="2014-02-14 12:00:00"/>
</rowset>`

const skillTreeXML = `<rowset name="skillGroups" key="groupID" columns="groupName,groupID">
  <row groupName="Gunnery" groupID="255">
    <rowset name="skills" key="typeID" columns="typeName,groupID,typeID,published">
      <row typeName="Gunnery" groupID="255" typeID="3300" published="1">
        <description>Basic turret operation skill.</description>
        <rank>1</rank>
      </row>
    </rowset>
  </row>
</rowset>`
