package evexml

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
)

// fakeTransport serves canned XML bodies keyed by endpoint and records every
// requested URL, so tests can assert call counts and query contents without
// touching a network.
type fakeTransport struct {
	mu     sync.Mutex
	bodies map[Endpoint]string
	err    error
	urls   []string
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{bodies: make(map[Endpoint]string)}
}

func (f *fakeTransport) stub(endpoint Endpoint, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bodies[endpoint] = body
}

func (f *fakeTransport) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// Get implements Transport. Endpoints without a stubbed body answer 404.
func (f *fakeTransport) Get(_ context.Context, rawURL string) (*Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.urls = append(f.urls, rawURL)
	if f.err != nil {
		return nil, f.err
	}
	for endpoint, body := range f.bodies {
		if strings.Contains(rawURL, "/"+string(endpoint)+endpointSuffix) {
			return &Response{StatusCode: http.StatusOK, Status: "200 OK", Body: []byte(body)}, nil
		}
	}
	return &Response{StatusCode: http.StatusNotFound, Status: "404 Not Found"}, nil
}

// count returns how many recorded calls hit the endpoint.
func (f *fakeTransport) count(endpoint Endpoint) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, u := range f.urls {
		if strings.Contains(u, "/"+string(endpoint)+endpointSuffix) {
			n++
		}
	}
	return n
}

// total returns how many calls were recorded in all.
func (f *fakeTransport) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.urls)
}

// lastURL returns the most recent call to the endpoint, "" when none.
func (f *fakeTransport) lastURL(endpoint Endpoint) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.urls) - 1; i >= 0; i-- {
		if strings.Contains(f.urls[i], "/"+string(endpoint)+endpointSuffix) {
			return f.urls[i]
		}
	}
	return ""
}

// envelope wraps inner in a well-formed eveapi response document.
func envelope(inner string) string {
	return `<?xml version='1.0' encoding='UTF-8'?>
<eveapi version="2">
  <currentTime>2015-04-11 18:00:00</currentTime>
  <result>` + inner + `</result>
  <cachedUntil>2015-04-11 19:00:00</cachedUntil>
</eveapi>`
}

// errorEnvelope builds an in-band error document.
func errorEnvelope(code int, message string) string {
	return fmt.Sprintf(`<?xml version='1.0' encoding='UTF-8'?>
<eveapi version="2">
  <currentTime>2015-04-11 18:00:00</currentTime>
  <error code="%d">%s</error>
  <cachedUntil>2015-04-11 19:00:00</cachedUntil>
</eveapi>`, code, message)
}

const (
	testKeyID = "1234567"
	testVCode = "h9KpzMrQvTgX4WnEbSfAyLdCeUjoRt6I"
)

// newFakeSession wires a session over a fake transport.
func newFakeSession(ft *fakeTransport) *Session {
	return NewClient(WithTransport(ft)).Session(testKeyID, testVCode)
}

// accountKeyInfoXML is an account key covering both test characters.
const accountKeyInfoXML = `<key accessMask="268435455" type="Account" expires="">
  <rowset name="characters" key="characterID" columns="characterID,characterName,corporationID,corporationName">
    <row characterID="95000001" characterName="Arel Tarn" corporationID="98000001" corporationName="Helios Salvage Works"/>
    <row characterID="95000002" characterName="Mira Voss" corporationID="98000002" corporationName="Deepwater Logistics"/>
  </rowset>
</key>`

// narrowKeyInfoXML is a character key covering only the second character.
const narrowKeyInfoXML = `<key accessMask="8388608" type="Character" expires="2016-01-01 00:00:00">
  <rowset name="characters" key="characterID" columns="characterID,characterName,corporationID,corporationName">
    <row characterID="95000002" characterName="Mira Voss" corporationID="98000002" corporationName="Deepwater Logistics"/>
  </rowset>
</key>`

// corporationKeyInfoXML is a corporation key for the first test corporation.
const corporationKeyInfoXML = `<key accessMask="67108863" type="Corporation" expires="">
  <rowset name="characters" key="characterID" columns="characterID,characterName,corporationID,corporationName">
    <row characterID="95000009" characterName="Davan Roth" corporationID="98000001" corporationName="Helios Salvage Works"/>
  </rowset>
</key>`

const accountCharactersXML = `<rowset name="characters" key="characterID" columns="name,characterID,corporationName,corporationID">
  <row name="Arel Tarn" characterID="95000001" corporationName="Helios Salvage Works" corporationID="98000001"/>
  <row name="Mira Voss" characterID="95000002" corporationName="Deepwater Logistics" corporationID="98000002"/>
</rowset>`

const accountStatusXML = `<paidUntil>2016-01-01 00:00:00</paidUntil>
<createDate>2012-05-20 14:22:11</createDate>
<logonCount>1432</logonCount>
<logonMinutes>186120</logonMinutes>`

// characterInfoXML is the public profile of the first test character. The
// employment rows are deliberately in ascending start order; interval
// inference must sort them itself.
const characterInfoXML = `<characterID>95000001</characterID>
<characterName>Arel Tarn</characterName>
<race>Minmatar</race>
<bloodline>Sebiestor</bloodline>
<corporationID>98000001</corporationID>
<corporation>Helios Salvage Works</corporation>
<corporationDate>2021-06-01 00:00:00</corporationDate>
<securityStatus>2.5</securityStatus>
<shipName>Spirit of Pator</shipName>
<shipTypeID>587</shipTypeID>
<shipTypeName>Rifter</shipTypeName>
<lastKnownLocation>Hek</lastKnownLocation>
<rowset name="employmentHistory" key="recordID" columns="recordID,corporationID,startDate">
  <row recordID="2" corporationID="98000002" startDate="2020-01-10 12:00:00"/>
  <row recordID="3" corporationID="98000001" startDate="2021-06-01 00:00:00"/>
</rowset>`

// characterSheetXML is the authenticated sheet of the first test character.
const characterSheetXML = `<characterID>95000001</characterID>
<name>Arel Tarn</name>
<DoB>2019-03-02 10:15:30</DoB>
<race>Minmatar</race>
<bloodLine>Sebiestor</bloodLine>
<ancestry>Tinkerers</ancestry>
<gender>Female</gender>
<corporationName>Helios Salvage Works</corporationName>
<corporationID>98000001</corporationID>
<cloneName>Clone Grade Delta</cloneName>
<cloneSkillPoints>9600000</cloneSkillPoints>
<balance>152350075.12</balance>
<attributes>
  <intelligence>23</intelligence>
  <memory>21</memory>
  <charisma>15</charisma>
  <perception>24</perception>
  <willpower>22</willpower>
</attributes>
<rowset name="skills" key="typeID" columns="typeID,skillpoints,level,published">
  <row typeID="3300" skillpoints="256000" level="5" published="1"/>
  <row typeID="3327" skillpoints="45255" level="3" published="1"/>
</rowset>
<rowset name="certificates" key="certificateID" columns="certificateID">
  <row certificateID="50"/>
  <row certificateID="57"/>
</rowset>`

const corporationSheetXML = `<corporationID>98000001</corporationID>
<corporationName>Helios Salvage Works</corporationName>
<ticker>HSW</ticker>
<ceoID>95000009</ceoID>
<ceoName>Davan Roth</ceoName>
<stationID>60004588</stationID>
<stationName>Hek VIII - Moon 12 - Boundless Creation Factory</stationName>
<description>Salvage and reprocessing services across Metropolis.</description>
<url>http://helios-salvage.example</url>
<allianceID>99000010</allianceID>
<allianceName>Northern Concord</allianceName>
<taxRate>7.5</taxRate>
<memberCount>42</memberCount>
<shares>1000</shares>`

const allianceListXML = `<rowset name="alliances" key="allianceID" columns="name,shortName,allianceID,executorCorpID,memberCount,startDate">
  <row name="Northern Concord" shortName="NCORD" allianceID="99000010" executorCorpID="98000050" memberCount="2048" startDate="2012-07-04 02:10:00">
    <rowset name="memberCorporations" key="corporationID" columns="corporationID,startDate">
      <row corporationID="98000050" startDate="2012-07-04 02:10:00"/>
      <row corporationID="98000051" startDate="2013-11-22 18:05:00"/>
    </rowset>
  </row>
  <row name="Veldspar Syndicate" shortName="VELD" allianceID="99000020" executorCorpID="98000060" memberCount="300" startDate="2014-02-14 12:00:00">
    <rowset name="memberCorporations" key="corporationID" columns="corporationID,startDate">
      <row corporationID="98000060" startDate="2014-02-14 12:00:00"/>
    </rowset>
  </row>
</rowset>`

const skillTreeXML = `<rowset name="skillGroups" key="groupID" columns="groupName,groupID">
  <row groupName="Gunnery" groupID="255">
    <rowset name="skills" key="typeID" columns="typeName,groupID,typeID,published">
      <row typeName="Gunnery" groupID="255" typeID="3300" published="1">
        <description>Basic turret operation skill.</description>
        <rank>1</rank>
        <requiredAttributes>
          <primaryAttribute>perception</primaryAttribute>
          <secondaryAttribute>willpower</secondaryAttribute>
        </requiredAttributes>
        <rowset name="requiredSkills" key="typeID" columns="typeID,skillLevel"/>
      </row>
      <row typeName="Small Projectile Turret" groupID="255" typeID="3302" published="1">
        <description>Operation of small projectile turrets.</description>
        <rank>1</rank>
        <requiredAttributes>
          <primaryAttribute>perception</primaryAttribute>
          <secondaryAttribute>willpower</secondaryAttribute>
        </requiredAttributes>
        <rowset name="requiredSkills" key="typeID" columns="typeID,skillLevel">
          <row typeID="3300" skillLevel="1"/>
        </rowset>
      </row>
    </rowset>
  </row>
  <row groupName="Spaceship Command" groupID="257">
    <rowset name="skills" key="typeID" columns="typeName,groupID,typeID,published">
      <row typeName="Spaceship Command" groupID="257" typeID="3327" published="1">
        <description>The basic operation of spaceships.</description>
        <rank>1</rank>
        <requiredAttributes>
          <primaryAttribute>perception</primaryAttribute>
          <secondaryAttribute>willpower</secondaryAttribute>
        </requiredAttributes>
        <rowset name="requiredSkills" key="typeID" columns="typeID,skillLevel"/>
      </row>
    </rowset>
  </row>
</rowset>`

const certificateTreeXML = `<rowset name="categories" key="categoryID" columns="categoryID,categoryName">
  <row categoryID="3" categoryName="Core">
    <rowset name="classes" key="classID" columns="classID,className">
      <row classID="2" className="Core Fitting">
        <rowset name="certificates" key="certificateID" columns="certificateID,grade,corporationID,description">
          <row certificateID="50" grade="1" corporationID="1000125" description="Basic fitting competence."/>
          <row certificateID="51" grade="2" corporationID="1000125" description="Standard fitting competence."/>
          <row certificateID="52" grade="3" corporationID="1000125" description="Improved fitting competence."/>
        </rowset>
      </row>
      <row classID="4" className="Core Navigation">
        <rowset name="certificates" key="certificateID" columns="certificateID,grade,corporationID,description">
          <row certificateID="57" grade="1" corporationID="1000125" description="Basic navigation competence."/>
        </rowset>
      </row>
    </rowset>
  </row>
</rowset>`

const skillQueueXML = `<rowset name="skillqueue" key="queuePosition" columns="queuePosition,typeID,level,startSP,endSP,startTime,endTime">
  <row queuePosition="1" typeID="3327" level="4" startSP="45255" endSP="256000" startTime="2015-04-15 10:00:00" endTime="2015-04-29 10:00:00"/>
  <row queuePosition="0" typeID="3300" level="5" startSP="256000" endSP="1280000" startTime="2015-04-11 10:00:00" endTime="2015-04-15 10:00:00"/>
</rowset>`

const skillInTrainingXML = `<currentTQTime offset="0">2015-04-11 18:00:00</currentTQTime>
<trainingEndTime>2015-04-15 10:00:00</trainingEndTime>
<trainingStartTime>2015-04-11 10:00:00</trainingStartTime>
<trainingTypeID>3300</trainingTypeID>
<trainingStartSP>256000</trainingStartSP>
<trainingDestinationSP>1280000</trainingDestinationSP>
<trainingToLevel>5</trainingToLevel>
<skillInTraining>1</skillInTraining>`

const skillIdleXML = `<skillInTraining>0</skillInTraining>`
