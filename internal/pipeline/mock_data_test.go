package pipeline_test

// rawObservations is a raw squirrel export covering a sighting with missing
// Age and fur color, a sighting with no parsable location, and a sighting
// whose hectare was never surveyed.
const rawObservations = "" +
	"X;Y;Unique Squirrel ID;Hectare;Shift;Date;Hectare Squirrel Number;Age;Primary Fur Color;Highlight Fur Color;Location;Running;Chasing;Climbing;Eating;Foraging;Kuks;Quaas;Moans;Tail flags;Tail twitches;Approaches;Indifferent;Runs from;Lat/Long\n" +
	"-73.9561344937861;40.7940823884086;37F-PM-1014-03;37F;PM;10142018;3;;;;;FALSE;FALSE;FALSE;FALSE;FALSE;FALSE;FALSE;FALSE;FALSE;FALSE;FALSE;FALSE;FALSE;POINT (-73.9561344937861 40.7940823884086)\n" +
	"-73.9684;40.7828;21B-AM-1019-04;21B;AM;10192018;4;Adult;Gray;;Ground Plane;TRUE;FALSE;FALSE;FALSE;FALSE;FALSE;FALSE;FALSE;FALSE;FALSE;FALSE;FALSE;TRUE;POINT (-73.9684 40.7828)\n" +
	";;11B-PM-1014-08;11B;PM;10142018;8;Juvenile;Gray;White;Above Ground;FALSE;;TRUE;FALSE;FALSE;FALSE;FALSE;FALSE;FALSE;FALSE;FALSE;FALSE;FALSE;not recorded\n" +
	"-73.9702;40.7712;32E-PM-1017-14;32E;PM;;14;Adult;Cinnamon;;;FALSE;FALSE;FALSE;TRUE;TRUE;FALSE;FALSE;FALSE;FALSE;FALSE;FALSE;FALSE;FALSE;POINT (-73.9702 40.7712)\n"

// rawAreas is a raw hectare export. 21B AM has no reading and no other
// reading on its date; 11B PM was surveyed twice, once with an unparsable
// reading.
const rawAreas = "" +
	"Hectare;Shift;Date;Anything Else;Total Time of Sighting;Number of sighters;Number of Squirrels;Sighter Observed Weather Data;Litter;Other Animal Sightings;Hectare Conditions;Hectare Conditions Notes\n" +
	"37F;PM;10142018;;;1;3;65º F, sunny;;Dog, Pigeon;Busy;\n" +
	"21B;AM;10192018;;;1;4;;;Pigeons;Calm;\n" +
	"11B;PM;10142018;;;1;2;18°C;;;Moderate;\n" +
	"11B;PM;10142018;;;1;1;cloudy;;Dogs;Busy;\n" +
	"01A;AM;10062018;;;1;0;70 F;;;Calm;\n"
