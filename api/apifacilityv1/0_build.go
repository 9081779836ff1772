package apifacilityv1

import (
	"github.com/fulldump/box"

	"github.com/fulldump/lockerdesk/service"
)

func BuildV1Facility(v1 *box.R, s service.Servicer) *box.R {

	facilities := v1.Resource("/facilities").
		WithActions(
			box.Get(listFacilities),
			box.Post(createFacility),
		)

	v1.Resource("/facilities/{facilityName}").
		WithActions(
			box.Get(getFacility),
			box.ActionPost(rent).WithName("rent"),
			box.ActionPost(free).WithName("free"),
			box.ActionPost(deposit).WithName("deposit"),
			box.ActionPost(retrieve).WithName("retrieve"),
			box.ActionPost(outOfCommission).WithName("outOfCommission"),
			box.ActionPost(operational).WithName("operational"),
			box.ActionPost(find).WithName("find"),
			box.ActionPost(dropFacility).WithName("dropFacility"),
		)

	v1.Resource("/facilities/{facilityName}/lockers/{lockerId}").
		WithActions(
			box.Get(getLocker),
		)

	return facilities
}
